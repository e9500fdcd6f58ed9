package todoist

type TodoistTask struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"project_id"`
	SectionID   string      `json:"section_id"`
	ParentID    string      `json:"parent_id"`
	Content     string      `json:"content"`
	Description string      `json:"description"`
	Labels      []string    `json:"labels"`
	Priority    int         `json:"priority"`
	Due         *TodoistDue `json:"due"`
	URL         string      `json:"url"`
	CreatedAt   string      `json:"created_at"`
}

type TodoistDue struct {
	Date        string `json:"date"`
	String      string `json:"string"`
	Datetime    string `json:"datetime"`
	IsRecurring bool   `json:"is_recurring"`
}

type AddCommentRequest struct {
	TaskID  string `json:"task_id"`
	Content string `json:"content"`
}

type TodoistComment struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Content  string `json:"content"`
	PostedAt string `json:"posted_at"`
}

type TodoistProject struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
	Order    int    `json:"order"`
}

type TodoistSection struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
}
