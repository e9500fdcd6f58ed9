package rtm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/normalize"
)

type Export struct {
	Tasks []ExportTask `json:"tasks"`
	Notes []ExportNote `json:"notes"`
	Lists []ExportList `json:"lists"`
}

type ExportTask struct {
	ID             string          `json:"id"`
	SeriesID       string          `json:"series_id"`
	ListID         string          `json:"list_id"`
	Name           string          `json:"name"`
	URL            string          `json:"url"`
	Tags           []string        `json:"tags"`
	Repeat         string          `json:"repeat"`
	DateDue        *int64          `json:"date_due"`
	DateDueHasTime bool            `json:"date_due_has_time"`
	ParentID       string          `json:"parent_id"`
	Priority       string          `json:"priority"`
	DateCompleted  json.RawMessage `json:"date_completed"`
	DateTrashed    json.RawMessage `json:"date_trashed"`
}

type ExportNote struct {
	ID       string `json:"id"`
	SeriesID string `json:"series_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type ExportList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Open reports whether the task is neither trashed nor completed. Presence of
// the key is what counts, whatever its value.
func (t ExportTask) Open() bool {
	return len(t.DateTrashed) == 0 && len(t.DateCompleted) == 0
}

func ParseExport(r io.Reader) (*Export, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode export json: %w", err)
	}
	return &export, nil
}

// Records converts open export tasks to raw records. Notes are attached to
// every task of their series, in file order. The query's ListID and TaskID
// narrow the result; Filter is ignored because exports carry no search index.
func (e *Export) Records(q client.Query) []normalize.Record {
	notes := make(map[string]normalize.NoteList)
	for _, n := range e.Notes {
		notes[n.SeriesID] = append(notes[n.SeriesID], n.Content)
	}

	var records []normalize.Record
	for _, t := range e.Tasks {
		if !t.Open() {
			continue
		}
		if q.ListID != "" && t.ListID != q.ListID {
			continue
		}
		if q.TaskID != "" && t.ID != q.TaskID {
			continue
		}

		var due normalize.DueValue
		if t.DateDue != nil {
			due = normalize.DueMillis(*t.DateDue)
		}
		priority := t.Priority
		if priority == "" {
			priority = "PN"
		}

		records = append(records, normalize.Record{
			ListID:     t.ListID,
			SeriesID:   t.SeriesID,
			TaskID:     t.ID,
			Name:       t.Name,
			URL:        t.URL,
			Tags:       normalize.TagsList(t.Tags),
			Notes:      notes[t.SeriesID],
			Recurrence: normalize.RuleString(t.Repeat),
			Due:        due,
			HasDueTime: t.DateDueHasTime,
			ParentID:   t.ParentID,
			Priority:   priority,
		})
	}
	return records
}

// ExportSource serves tasks from an export file through the SourceClient
// interface so the migration does not care where records came from.
type ExportSource struct {
	path string
}

func NewExportSource(path string) *ExportSource {
	return &ExportSource{path: path}
}

func (s *ExportSource) load() (*Export, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open export (rtm): %w", err)
	}
	defer f.Close()
	return ParseExport(f)
}

func (s *ExportSource) GetTasks(ctx context.Context, q client.Query) ([]normalize.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	export, err := s.load()
	if err != nil {
		return nil, err
	}
	return export.Records(q), nil
}
