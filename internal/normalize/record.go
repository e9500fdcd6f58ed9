package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TWRT/rtm2todoist/internal/models"
)

// Record is one raw source task before normalization.
type Record struct {
	ListID     string
	SeriesID   string
	TaskID     string
	Name       string
	URL        string
	Tags       TagValue
	Notes      NoteValue
	Recurrence RecurrenceValue
	Due        DueValue
	HasDueTime bool
	ParentID   string
	Priority   string
}

// FieldError reports a source field that was dropped during normalization.
type FieldError struct {
	TaskID string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("task %s: %s dropped: %v", e.TaskID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParentID parses the source parent pointer; empty or malformed values mean root.
func ParentID(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// Task always returns a task. A non-nil error is a *FieldError describing a
// field that could not be translated and was left absent.
func (r Record) Task() (*models.Task, error) {
	task := &models.Task{
		ListID:   r.ListID,
		SeriesID: r.SeriesID,
		ID:       r.TaskID,
		Text:     r.Name,
		URL:      strings.TrimSpace(r.URL),
		Tags:     Tags(r.Tags),
		Notes:    Notes(r.Notes),
		Due:      Due(r.Due, r.HasDueTime),
		Priority: Priority(r.Priority),
		ParentID: ParentID(r.ParentID),
		Subtasks: []string{},
	}

	repeat, err := ParseRecurrence(r.Recurrence)
	switch {
	case err == nil:
		task.Repeat = repeat
	case errors.Is(err, ErrNoRecurrence):
	default:
		return task, &FieldError{TaskID: r.TaskID, Field: "recurrence", Err: err}
	}
	return task, nil
}
