package models

import (
	"sort"
	"strconv"
)

type Repeat struct {
	RRule string
	Human string
}

type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order so requests and logs are stable.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Task is the normalized shape every source record is converted into.
// ParentID 0 marks a declared root. Subtasks is filled by the hierarchy builder only.
type Task struct {
	ListID   string
	SeriesID string
	ID       string
	Text     string
	URL      string
	Tags     TagSet
	Notes    []string
	Repeat   *Repeat
	Due      string
	Priority int
	ParentID int64
	Subtasks []string
}

func (t *Task) IsRoot() bool {
	return t.ParentID == 0
}

func (t *Task) ParentKey() string {
	if t.ParentID == 0 {
		return ""
	}
	return strconv.FormatInt(t.ParentID, 10)
}

// TaskSet keeps tasks keyed by source task id while remembering insertion order.
type TaskSet struct {
	order []string
	byID  map[string]*Task
}

func NewTaskSet() *TaskSet {
	return &TaskSet{byID: make(map[string]*Task)}
}

// Add inserts or replaces a task. Replacing keeps the original position.
func (s *TaskSet) Add(task *Task) {
	if _, exists := s.byID[task.ID]; !exists {
		s.order = append(s.order, task.ID)
	}
	s.byID[task.ID] = task
}

func (s *TaskSet) Get(id string) (*Task, bool) {
	t, ok := s.byID[id]
	return t, ok
}

func (s *TaskSet) Len() int {
	return len(s.order)
}

func (s *TaskSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns the tasks in insertion order.
func (s *TaskSet) All() []*Task {
	out := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
