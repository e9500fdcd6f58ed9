package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/routing"
)

// DirectoryService lists what exists on both sides so a routing table can
// be written by hand.
type DirectoryService struct {
	lists    client.ListProvider
	projects client.ProjectProvider
}

func NewDirectoryService(lists client.ListProvider, projects client.ProjectProvider) *DirectoryService {
	return &DirectoryService{
		lists:    lists,
		projects: projects,
	}
}

// ProjectTree is a destination project with its sections.
type ProjectTree struct {
	Project  models.Project
	Sections []models.Section
}

func (s *DirectoryService) GetSourceLists(ctx context.Context) ([]models.SourceList, error) {
	if s.lists == nil {
		return nil, ErrNilClient
	}
	lists, err := s.lists.GetLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("get source lists: %w", err)
	}
	return lists, nil
}

// GetProjectTree fetches every project and all sections in two calls and
// groups the sections under their project, keeping the destination's order.
func (s *DirectoryService) GetProjectTree(ctx context.Context) ([]ProjectTree, error) {
	if s.projects == nil {
		return nil, ErrNilClient
	}
	projects, err := s.projects.GetProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("get destination projects: %w", err)
	}
	sections, err := s.projects.GetSections(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("get destination sections: %w", err)
	}

	byProject := make(map[string][]models.Section)
	for _, sec := range sections {
		byProject[sec.ProjectID] = append(byProject[sec.ProjectID], sec)
	}

	tree := make([]ProjectTree, len(projects))
	for i, p := range projects {
		tree[i] = ProjectTree{Project: p, Sections: byProject[p.ID]}
	}
	return tree, nil
}

// RouteSkeleton returns a routing table entry for every source list that the
// given table does not map yet. New entries carry a zero route to be filled in.
func (s *DirectoryService) RouteSkeleton(ctx context.Context, existing routing.Table, includeArchived bool) (routing.Table, []models.SourceList, error) {
	lists, err := s.GetSourceLists(ctx)
	if err != nil {
		return nil, nil, err
	}

	table := make(routing.Table, len(lists))
	for id, route := range existing {
		table[id] = route
	}

	var missing []models.SourceList
	for _, l := range lists {
		if l.Smart || (l.Archived && !includeArchived) {
			continue
		}
		if _, ok := table[l.ID]; ok {
			continue
		}
		table[l.ID] = models.Route{}
		missing = append(missing, l)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })
	return table, missing, nil
}
