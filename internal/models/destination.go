package models

// Route is where tasks of one source list land in the destination.
// A zero SectionID means the project's default section.
type Route struct {
	ProjectID int64 `mapstructure:"project" yaml:"project"`
	SectionID int64 `mapstructure:"section" yaml:"section"`
}

type CreateTaskParams struct {
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	DueDatetime string   `json:"due_datetime,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	SectionID   string   `json:"section_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Labels      []string `json:"labels"`
}

type TaskRef struct {
	ID string
}

type CommentRef struct {
	ID string
}

type Project struct {
	ID   string
	Name string
}

type Section struct {
	ID        string
	ProjectID string
	Name      string
}

type SourceList struct {
	ID       string
	Name     string
	Archived bool
	Smart    bool
}
