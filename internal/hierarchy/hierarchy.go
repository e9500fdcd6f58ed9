// Package hierarchy rebuilds parent/child links between normalized tasks.
//
// Sources only record a parent pointer on each child. Build turns those
// pointers into ordered Subtasks lists and returns the roots the migration
// walks from. Missing parents and parent cycles are reported, never fatal.
package hierarchy

import (
	"fmt"

	"github.com/TWRT/rtm2todoist/internal/models"
)

type WarningKind string

const (
	WarningOrphan WarningKind = "orphan"
	WarningCycle  WarningKind = "cycle"
)

// Warning describes a task that is migrated as a root although the source
// declared a parent for it.
type Warning struct {
	Kind     WarningKind
	TaskID   string
	ListID   string
	ParentID int64
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningCycle:
		return fmt.Sprintf("task %s (list %s) is part of a parent cycle through %d; migrating it as a root", w.TaskID, w.ListID, w.ParentID)
	default:
		return fmt.Sprintf("parent task %d not found for task %s (list %s)", w.ParentID, w.TaskID, w.ListID)
	}
}

// Forest is the result of Build. Roots are in source order.
type Forest struct {
	Tasks    *models.TaskSet
	Roots    []string
	Warnings []Warning
}

func (f *Forest) Orphans() []Warning {
	return f.filter(WarningOrphan)
}

func (f *Forest) Cycles() []Warning {
	return f.filter(WarningCycle)
}

func (f *Forest) filter(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range f.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Build populates Subtasks on every parent and returns the forest roots.
// It must run exactly once per task set; Subtasks are appended, not reset.
func Build(tasks *models.TaskSet) *Forest {
	forest := &Forest{Tasks: tasks}
	promoted := make(map[string]bool)

	for _, task := range tasks.All() {
		if task.IsRoot() {
			continue
		}
		parent, ok := tasks.Get(task.ParentKey())
		if !ok {
			forest.Warnings = append(forest.Warnings, Warning{
				Kind:     WarningOrphan,
				TaskID:   task.ID,
				ListID:   task.ListID,
				ParentID: task.ParentID,
			})
			promoted[task.ID] = true
			continue
		}
		parent.Subtasks = append(parent.Subtasks, task.ID)
	}

	for _, id := range breakCycles(tasks, promoted) {
		task, _ := tasks.Get(id)
		forest.Warnings = append(forest.Warnings, Warning{
			Kind:     WarningCycle,
			TaskID:   task.ID,
			ListID:   task.ListID,
			ParentID: task.ParentID,
		})
		promoted[id] = true
	}

	for _, task := range tasks.All() {
		if task.IsRoot() || promoted[task.ID] {
			forest.Roots = append(forest.Roots, task.ID)
		}
	}
	return forest
}

const (
	unvisited = iota
	visiting
	done
)

// breakCycles follows parent pointers from every task. When a walk returns
// to a task still on the current path, the member of that loop that comes
// first in source order is detached from its parent. The detached ids are
// returned in the order they were found.
func breakCycles(tasks *models.TaskSet, promoted map[string]bool) []string {
	state := make(map[string]int, tasks.Len())
	position := make(map[string]int, tasks.Len())
	for i, id := range tasks.IDs() {
		position[id] = i
	}

	var broken []string
	for _, start := range tasks.IDs() {
		var path []string
		cur := start
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == visiting {
				loop := path[indexOf(path, cur):]
				cut := loop[0]
				for _, id := range loop[1:] {
					if position[id] < position[cut] {
						cut = id
					}
				}
				detach(tasks, cut)
				broken = append(broken, cut)
				break
			}
			state[cur] = visiting
			path = append(path, cur)

			task, _ := tasks.Get(cur)
			if task.IsRoot() || promoted[cur] {
				break
			}
			cur = task.ParentKey()
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return broken
}

func detach(tasks *models.TaskSet, id string) {
	task, _ := tasks.Get(id)
	parent, ok := tasks.Get(task.ParentKey())
	if !ok {
		return
	}
	kept := parent.Subtasks[:0]
	for _, child := range parent.Subtasks {
		if child != id {
			kept = append(kept, child)
		}
	}
	parent.Subtasks = kept
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}
