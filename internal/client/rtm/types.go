package rtm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type RTMError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type RTMResponse[T any] struct {
	Rsp T `json:"rsp"`
}

type rspStatus struct {
	Stat string    `json:"stat"`
	Err  *RTMError `json:"err,omitempty"`
}

type TasksRsp struct {
	rspStatus
	Tasks struct {
		Rev  string     `json:"rev"`
		List []TaskList `json:"list"`
	} `json:"tasks"`
}

type ListsRsp struct {
	rspStatus
	Lists struct {
		List []RTMList `json:"list"`
	} `json:"lists"`
}

type RTMList struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Deleted  string `json:"deleted"`
	Locked   string `json:"locked"`
	Archived string `json:"archived"`
	Position string `json:"position"`
	Smart    string `json:"smart"`
}

type TaskList struct {
	ID         string       `json:"id"`
	TaskSeries []TaskSeries `json:"taskseries"`
}

type TaskSeries struct {
	ID           string         `json:"id"`
	Created      string         `json:"created"`
	Modified     string         `json:"modified"`
	Name         string         `json:"name"`
	Source       string         `json:"source"`
	URL          string         `json:"url"`
	LocationID   string         `json:"location_id"`
	ParentTaskID string         `json:"parent_task_id"`
	RRule        *RRule         `json:"rrule,omitempty"`
	Tags         Tags           `json:"tags"`
	Notes        Notes          `json:"notes"`
	Task         []TaskInstance `json:"task"`
}

type TaskInstance struct {
	ID         string `json:"id"`
	Due        string `json:"due"`
	HasDueTime string `json:"has_due_time"`
	Added      string `json:"added"`
	Completed  string `json:"completed"`
	Deleted    string `json:"deleted"`
	Priority   string `json:"priority"`
	Postponed  string `json:"postponed"`
	Estimate   string `json:"estimate"`
}

type RRule struct {
	Every string `json:"every"`
	Rule  string `json:"$t"`
}

type Note struct {
	ID       string `json:"id"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
	Title    string `json:"title"`
	Body     string `json:"$t"`
}

func (n Note) NoteText() string {
	return n.Body
}

// Tags decodes the tag collection, which the API sends as [] when empty and
// as {"tag": [...]} or {"tag": "name"} otherwise.
type Tags []string

func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isEmptyCollection(b) {
		*t = nil
		return nil
	}
	if b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("failed to decode tags: %w", err)
		}
		*t = list
		return nil
	}
	var wrapper struct {
		Tag json.RawMessage `json:"tag"`
	}
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	list, err := oneOrMany[string](wrapper.Tag)
	if err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	*t = list
	return nil
}

// Notes decodes the note collection; same shapes as Tags with note objects.
type Notes []Note

func (n *Notes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isEmptyCollection(b) {
		*n = nil
		return nil
	}
	if b[0] == '[' {
		var list []Note
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("failed to decode notes: %w", err)
		}
		*n = list
		return nil
	}
	var wrapper struct {
		Note json.RawMessage `json:"note"`
	}
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return fmt.Errorf("failed to decode notes: %w", err)
	}
	list, err := oneOrMany[Note](wrapper.Note)
	if err != nil {
		return fmt.Errorf("failed to decode notes: %w", err)
	}
	*n = list
	return nil
}

func isEmptyCollection(b []byte) bool {
	s := string(b)
	return s == "" || s == "null" || s == "[]" || s == "{}" || s == `""`
}

func oneOrMany[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if isEmptyCollection(raw) {
		return nil, nil
	}
	if raw[0] == '[' {
		var many []T
		err := json.Unmarshal(raw, &many)
		return many, err
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}
