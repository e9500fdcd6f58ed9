// Package routing maps source lists onto destination projects and sections.
package routing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/TWRT/rtm2todoist/internal/models"
)

// ErrUnmappedList is wrapped by every *ConfigurationError.
var ErrUnmappedList = errors.New("source list has no destination route")

// ConfigurationError means the routing table cannot place a task. It is
// fatal for the whole run.
type ConfigurationError struct {
	ListID string
	TaskID string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("configuration error: list %s (task %s): %v", e.ListID, e.TaskID, e.Err)
	}
	return fmt.Sprintf("configuration error: list %s: %v", e.ListID, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Table is the static list id -> route mapping.
type Table map[string]models.Route

func (t Table) Lookup(listID string) (models.Route, error) {
	route, ok := t[listID]
	if !ok {
		return models.Route{}, &ConfigurationError{ListID: listID, Err: ErrUnmappedList}
	}
	return route, nil
}

// Validate resolves every task's list. The first unmapped list in task order
// is returned so a run aborts before any destination call.
func (t Table) Validate(tasks []*models.Task) error {
	for _, task := range tasks {
		if _, ok := t[task.ListID]; !ok {
			return &ConfigurationError{ListID: task.ListID, TaskID: task.ID, Err: ErrUnmappedList}
		}
	}
	return nil
}

// ListIDs returns the mapped list ids in lexical order.
func (t Table) ListIDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Placement returns the destination project and section ids as request
// strings. Zero or negative ids mean "no explicit placement" and yield "".
func Placement(route models.Route) (projectID, sectionID string) {
	if route.ProjectID > 0 {
		projectID = strconv.FormatInt(route.ProjectID, 10)
	}
	if route.SectionID > 0 {
		sectionID = strconv.FormatInt(route.SectionID, 10)
	}
	return projectID, sectionID
}
