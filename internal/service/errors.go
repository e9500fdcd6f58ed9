package service

import (
	"errors"
	"fmt"
)

var (
	ErrNilClient   = errors.New("migration service needs both a source and a destination client")
	ErrMissingID   = errors.New("destination returned no task id")
	ErrParentAbort = errors.New("parent task was not created")
)

// CreationError means the destination did not create a task. The task and
// every descendant are abandoned for this run.
type CreationError struct {
	TaskID string
	ListID string
	Text   string
	Err    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create task %s (list %s) %q: %v", e.TaskID, e.ListID, e.Text, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// CommentError means one note was not attached. Note is its index on the task.
type CommentError struct {
	TaskID     string
	ListID     string
	DestTaskID string
	Note       int
	Err        error
}

func (e *CommentError) Error() string {
	return fmt.Sprintf("add note %d to task %s (list %s, destination %s): %v", e.Note+1, e.TaskID, e.ListID, e.DestTaskID, e.Err)
}

func (e *CommentError) Unwrap() error {
	return e.Err
}
