package todoist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/TWRT/rtm2todoist/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *TodoistClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTodoistClient(context.Background(), "secret-token").WithBaseURL(srv.URL + "/")
}

func TestCreateTask_PostsParamsWithBearerToken(t *testing.T) {
	var (
		auth    string
		path    string
		payload map[string]any
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.Method + " " + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"2995104339","content":"Plan trip"}`))
	})

	ref, err := c.CreateTask(context.Background(), models.CreateTaskParams{
		Content:   "Plan trip",
		DueDate:   "2024-05-06",
		Priority:  4,
		ProjectID: "100",
		Labels:    []string{"travel"},
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if ref.ID != "2995104339" {
		t.Errorf("ID = %q", ref.ID)
	}
	if auth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", auth)
	}
	if path != "POST /tasks" {
		t.Errorf("request = %q, want POST /tasks", path)
	}
	if payload["content"] != "Plan trip" || payload["due_date"] != "2024-05-06" || payload["project_id"] != "100" {
		t.Errorf("payload = %v", payload)
	}
	if _, ok := payload["section_id"]; ok {
		t.Errorf("section_id sent for zero section: %v", payload)
	}
	if _, ok := payload["parent_id"]; ok {
		t.Errorf("parent_id sent for root task: %v", payload)
	}
}

func TestCreateTask_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Project not found", http.StatusBadRequest)
	})

	_, err := c.CreateTask(context.Background(), models.CreateTaskParams{Content: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Project not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAddComment(t *testing.T) {
	var req AddCommentRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/comments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&req)
		w.Write([]byte(`{"id":"c1","task_id":"t1","content":"hello"}`))
	})

	ref, err := c.AddComment(context.Background(), "t1", "hello")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if ref.ID != "c1" {
		t.Errorf("ID = %q", ref.ID)
	}
	if req != (AddCommentRequest{TaskID: "t1", Content: "hello"}) {
		t.Errorf("request = %+v", req)
	}
}

func TestGetProjectsAndSections(t *testing.T) {
	var sectionQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			w.Write([]byte(`[{"id":"1","name":"Inbox"},{"id":"2","name":"Travel"}]`))
		case "/sections":
			sectionQuery = r.URL.Query().Get("project_id")
			w.Write([]byte(`[{"id":"7","project_id":"2","name":"Bookings"}]`))
		default:
			http.NotFound(w, r)
		}
	})

	projects, err := c.GetProjects(context.Background())
	if err != nil {
		t.Fatalf("GetProjects() error = %v", err)
	}
	want := []models.Project{{ID: "1", Name: "Inbox"}, {ID: "2", Name: "Travel"}}
	if !reflect.DeepEqual(projects, want) {
		t.Errorf("projects = %+v", projects)
	}

	sections, err := c.GetSections(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetSections() error = %v", err)
	}
	if sectionQuery != "2" {
		t.Errorf("project_id = %q", sectionQuery)
	}
	if len(sections) != 1 || sections[0] != (models.Section{ID: "7", ProjectID: "2", Name: "Bookings"}) {
		t.Errorf("sections = %+v", sections)
	}
}

func TestDryRunClient_RecordsRequests(t *testing.T) {
	c := NewDryRunClient(nil)
	ctx := context.Background()

	a, err := c.CreateTask(ctx, models.CreateTaskParams{Content: "a"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.CreateTask(ctx, models.CreateTaskParams{Content: "b", ParentID: a.ID})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids = %q, %q, want distinct", a.ID, b.ID)
	}
	if _, err := c.AddComment(ctx, b.ID, "note"); err != nil {
		t.Fatal(err)
	}

	tasks := c.Tasks()
	if len(tasks) != 2 || tasks[1].ParentID != a.ID {
		t.Errorf("tasks = %+v", tasks)
	}
	if c.Comments() != 1 {
		t.Errorf("Comments() = %d, want 1", c.Comments())
	}
}
