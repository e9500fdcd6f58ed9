package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TWRT/rtm2todoist/internal/models"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.todoist.com/rest/v2"

type TodoistClient struct {
	baseUrl    string
	httpClient *http.Client
}

// NewTodoistClient authenticates every request with the API token as a
// bearer credential.
func NewTodoistClient(ctx context.Context, token string) *TodoistClient {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = 10 * time.Second
	return &TodoistClient{
		baseUrl:    DefaultBaseURL,
		httpClient: httpClient,
	}
}

func (c *TodoistClient) WithBaseURL(baseUrl string) *TodoistClient {
	if baseUrl != "" {
		c.baseUrl = strings.TrimRight(baseUrl, "/")
	}
	return c
}

func (c *TodoistClient) WithTimeout(timeout time.Duration) *TodoistClient {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// APIError carries a non-2xx response. Todoist answers errors in plain text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Todoist error status: %d", e.StatusCode)
	}
	return fmt.Sprintf("Todoist error status %d: %s", e.StatusCode, e.Message)
}

func (c *TodoistClient) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("Error trying to parse body to Json: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Error trying to read the body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *TodoistClient) CreateTask(ctx context.Context, params models.CreateTaskParams) (*models.TaskRef, error) {
	var created TodoistTask
	if err := c.do(ctx, http.MethodPost, "/tasks", params, &created); err != nil {
		return nil, fmt.Errorf("create task (todoist): %w", err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("create task (todoist): response carried no id")
	}
	return &models.TaskRef{ID: created.ID}, nil
}

func (c *TodoistClient) AddComment(ctx context.Context, taskID, content string) (*models.CommentRef, error) {
	var comment TodoistComment
	reqBody := AddCommentRequest{TaskID: taskID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/comments", reqBody, &comment); err != nil {
		return nil, fmt.Errorf("add comment (todoist): %w", err)
	}
	return &models.CommentRef{ID: comment.ID}, nil
}

func (c *TodoistClient) GetProjects(ctx context.Context) ([]models.Project, error) {
	var projects []TodoistProject
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, fmt.Errorf("get projects (todoist): %w", err)
	}

	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = models.Project{ID: p.ID, Name: p.Name}
	}
	return out, nil
}

// GetSections lists the sections of one project, or of every project when
// projectID is empty.
func (c *TodoistClient) GetSections(ctx context.Context, projectID string) ([]models.Section, error) {
	path := "/sections"
	if projectID != "" {
		path += "?" + url.Values{"project_id": {projectID}}.Encode()
	}

	var sections []TodoistSection
	if err := c.do(ctx, http.MethodGet, path, nil, &sections); err != nil {
		return nil, fmt.Errorf("get sections (todoist): %w", err)
	}

	out := make([]models.Section, len(sections))
	for i, s := range sections {
		out[i] = models.Section{ID: s.ID, ProjectID: s.ProjectID, Name: s.Name}
	}
	return out, nil
}
