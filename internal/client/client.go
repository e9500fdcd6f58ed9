package client

import (
	"context"

	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/normalize"
)

// Query selects source tasks. Empty fields are not sent.
type Query struct {
	Filter string
	ListID string
	TaskID string
}

type SourceClient interface {
	GetTasks(ctx context.Context, q Query) ([]normalize.Record, error)
}

type ListProvider interface {
	GetLists(ctx context.Context) ([]models.SourceList, error)
}

type DestinationClient interface {
	CreateTask(ctx context.Context, params models.CreateTaskParams) (*models.TaskRef, error)
	AddComment(ctx context.Context, taskID, content string) (*models.CommentRef, error)
}

type ProjectProvider interface {
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetSections(ctx context.Context, projectID string) ([]models.Section, error)
}
