package todoist

import (
	"context"
	"sync"

	"github.com/TWRT/rtm2todoist/internal/logging"
	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/google/uuid"
)

// DryRunClient accepts every request without contacting Todoist and hands
// back fresh ids so the walk proceeds exactly as a live run would.
type DryRunClient struct {
	logger *logging.Logger

	mu       sync.Mutex
	tasks    []models.CreateTaskParams
	comments int
}

func NewDryRunClient(logger *logging.Logger) *DryRunClient {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &DryRunClient{logger: logger}
}

func (c *DryRunClient) CreateTask(ctx context.Context, params models.CreateTaskParams) (*models.TaskRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	c.mu.Lock()
	c.tasks = append(c.tasks, params)
	c.mu.Unlock()

	c.logger.Info("dry run: create task",
		"id", id,
		"content", params.Content,
		"project_id", params.ProjectID,
		"section_id", params.SectionID,
		"parent_id", params.ParentID,
		"labels", params.Labels,
	)
	return &models.TaskRef{ID: id}, nil
}

func (c *DryRunClient) AddComment(ctx context.Context, taskID, content string) (*models.CommentRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.comments++
	c.mu.Unlock()

	c.logger.Info("dry run: add comment", "task_id", taskID, "length", len(content))
	return &models.CommentRef{ID: uuid.NewString()}, nil
}

// Tasks returns the create requests seen so far, in order.
func (c *DryRunClient) Tasks() []models.CreateTaskParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CreateTaskParams, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *DryRunClient) Comments() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.comments
}
