package service

import (
	"context"
	"fmt"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/normalize"
)

type fakeSource struct {
	getTasksFn func(ctx context.Context, q client.Query) ([]normalize.Record, error)
	queries    []client.Query
}

func (f *fakeSource) GetTasks(ctx context.Context, q client.Query) ([]normalize.Record, error) {
	f.queries = append(f.queries, q)
	if f.getTasksFn != nil {
		return f.getTasksFn(ctx, q)
	}
	return nil, nil
}

type comment struct {
	TaskID  string
	Content string
}

// fakeDestination records every call in order. Without overrides it hands
// out ids d1, d2, ... in creation order.
type fakeDestination struct {
	createFn  func(params models.CreateTaskParams) (*models.TaskRef, error)
	commentFn func(taskID, content string) (*models.CommentRef, error)

	created  []models.CreateTaskParams
	comments []comment
	events   []string
}

func (f *fakeDestination) CreateTask(ctx context.Context, params models.CreateTaskParams) (*models.TaskRef, error) {
	f.created = append(f.created, params)
	f.events = append(f.events, "create:"+params.Content)
	if f.createFn != nil {
		return f.createFn(params)
	}
	return &models.TaskRef{ID: fmt.Sprintf("d%d", len(f.created))}, nil
}

func (f *fakeDestination) AddComment(ctx context.Context, taskID, content string) (*models.CommentRef, error) {
	f.comments = append(f.comments, comment{TaskID: taskID, Content: content})
	f.events = append(f.events, "comment:"+content)
	if f.commentFn != nil {
		return f.commentFn(taskID, content)
	}
	return &models.CommentRef{ID: fmt.Sprintf("c%d", len(f.comments))}, nil
}

type fakeLists struct {
	lists []models.SourceList
	err   error
}

func (f *fakeLists) GetLists(ctx context.Context) ([]models.SourceList, error) {
	return f.lists, f.err
}

type fakeProjects struct {
	projects      []models.Project
	sections      []models.Section
	err           error
	sectionFilter []string
}

func (f *fakeProjects) GetProjects(ctx context.Context) ([]models.Project, error) {
	return f.projects, f.err
}

func (f *fakeProjects) GetSections(ctx context.Context, projectID string) ([]models.Section, error) {
	f.sectionFilter = append(f.sectionFilter, projectID)
	return f.sections, f.err
}

func taskSet(tasks ...*models.Task) *models.TaskSet {
	set := models.NewTaskSet()
	for _, t := range tasks {
		if t.Priority == 0 {
			t.Priority = 1
		}
		set.Add(t)
	}
	return set
}
