package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/console"
	"github.com/TWRT/rtm2todoist/internal/hierarchy"
	"github.com/TWRT/rtm2todoist/internal/logging"
	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/normalize"
	"github.com/TWRT/rtm2todoist/internal/repository"
	"github.com/TWRT/rtm2todoist/internal/routing"
)

// RecurrenceLabel marks tasks whose recurrence must be re-created by hand.
const RecurrenceLabel = "fix-recurrance"

// Reporter receives progress for a person watching the run.
type Reporter interface {
	Start(source string, total int, dryRun bool)
	Created(taskID, listID, text, destID string)
	Failed(taskID, listID string, err error)
	CommentFailed(taskID, listID string, err error)
	Skipped(taskID, listID, reason string)
	Warning(msg string)
	Summary(s console.Summary)
}

// RunLedger stores the outcome of a run. Failures to write it are logged and
// never stop the migration.
type RunLedger interface {
	StartRun(ctx context.Context, m *repository.Migration) (string, error)
	SetTotal(ctx context.Context, runID string, total int) error
	RecordTask(ctx context.Context, m *repository.TaskMapping) error
	FinishRun(ctx context.Context, runID string, p repository.Progress, status string) error
}

type MigrationService struct {
	source   client.SourceClient
	dest     client.DestinationClient
	routes   routing.Table
	ledger   RunLedger
	logger   *logging.Logger
	reporter Reporter

	SourceName      string
	DestinationName string
	DryRun          bool
}

// NewMigrationService wires the engine. ledger, logger and reporter may be nil.
func NewMigrationService(
	source client.SourceClient,
	dest client.DestinationClient,
	routes routing.Table,
	ledger RunLedger,
	logger *logging.Logger,
	reporter Reporter,
) *MigrationService {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &MigrationService{
		source:          source,
		dest:            dest,
		routes:          routes,
		ledger:          ledger,
		logger:          logger,
		reporter:        reporter,
		SourceName:      "rtm",
		DestinationName: "todoist",
	}
}

type Result struct {
	RunID          string
	Total          int
	Created        int
	Failed         int
	Skipped        int
	CommentsAdded  int
	CommentsFailed int
	Orphans        []hierarchy.Warning
	Cycles         []hierarchy.Warning
	FieldErrors    []error
	// IDs maps source task id to destination task id for every created task.
	IDs map[string]string
	// Errors holds every *CreationError and *CommentError in the order they happened.
	Errors  []error
	Elapsed time.Duration
}

func newResult() *Result {
	return &Result{IDs: make(map[string]string)}
}

func (r *Result) progress() repository.Progress {
	return repository.Progress{
		Completed:      r.Created,
		Failed:         r.Failed,
		Skipped:        r.Skipped,
		CommentsFailed: r.CommentsFailed,
	}
}

func (r *Result) summary(dryRun bool) console.Summary {
	return console.Summary{
		Created:        r.Created,
		Failed:         r.Failed,
		Skipped:        r.Skipped,
		CommentsAdded:  r.CommentsAdded,
		CommentsFailed: r.CommentsFailed,
		Warnings:       len(r.Orphans) + len(r.Cycles) + len(r.FieldErrors),
		Elapsed:        r.Elapsed,
		DryRun:         dryRun,
	}
}

// CreationErrors returns the reported creation failures in order.
func (r *Result) CreationErrors() []*CreationError {
	var out []*CreationError
	for _, err := range r.Errors {
		var ce *CreationError
		if errors.As(err, &ce) {
			out = append(out, ce)
		}
	}
	return out
}

// LoadTasks fetches source records and normalizes them in source order.
// Fields that could not be translated are returned alongside the tasks.
func (s *MigrationService) LoadTasks(ctx context.Context, q client.Query) (*models.TaskSet, []error, error) {
	if s.source == nil {
		return nil, nil, ErrNilClient
	}

	records, err := s.source.GetTasks(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("get tasks from source: %w", err)
	}

	tasks := models.NewTaskSet()
	var fieldErrs []error
	for _, record := range records {
		task, err := record.Task()
		if err != nil {
			fieldErrs = append(fieldErrs, err)
		}
		tasks.Add(task)
	}
	return tasks, fieldErrs, nil
}

// Migrate loads the tasks selected by q and replays them on the destination.
func (s *MigrationService) Migrate(ctx context.Context, q client.Query) (*Result, error) {
	runID := s.startRun(ctx, q.Filter)
	log := s.logger.WithRun(runID)

	tasks, fieldErrs, err := s.LoadTasks(ctx, q)
	if err != nil {
		log.WithPhase("load").Error("failed to load tasks", "error", err)
		s.finishRun(ctx, runID, repository.Progress{}, repository.StatusFailed)
		return nil, err
	}
	log.WithPhase("load").Info("tasks loaded",
		"count", tasks.Len(),
		"filter", q.Filter,
		"list_id", q.ListID,
		"task_id", q.TaskID,
	)

	return s.execute(ctx, runID, tasks, fieldErrs)
}

// MigrateTasks replays an already normalized task set. Subtasks must still be
// empty: the hierarchy is built here.
func (s *MigrationService) MigrateTasks(ctx context.Context, tasks *models.TaskSet) (*Result, error) {
	runID := s.startRun(ctx, "")
	return s.execute(ctx, runID, tasks, nil)
}

func (s *MigrationService) execute(ctx context.Context, runID string, tasks *models.TaskSet, fieldErrs []error) (*Result, error) {
	started := time.Now()
	log := s.logger.WithRun(runID)

	result := newResult()
	result.RunID = runID
	result.Total = tasks.Len()
	result.FieldErrors = fieldErrs
	for _, fe := range fieldErrs {
		log.WithPhase("load").Warn("field dropped", "error", fe)
		s.reporter.Warning(fe.Error())
	}

	if s.dest == nil {
		s.finishRun(ctx, runID, repository.Progress{}, repository.StatusFailed)
		return nil, ErrNilClient
	}

	forest := hierarchy.Build(tasks)
	result.Orphans = forest.Orphans()
	result.Cycles = forest.Cycles()
	for _, w := range forest.Warnings {
		log.WithPhase("build").Warn("hierarchy warning",
			"kind", string(w.Kind),
			"task_id", w.TaskID,
			"list_id", w.ListID,
			"parent_id", w.ParentID,
		)
		s.reporter.Warning(w.String())
	}

	if err := s.routes.Validate(tasks.All()); err != nil {
		log.WithPhase("validate").Error("routing validation failed", "error", err)
		s.finishRun(ctx, runID, repository.Progress{}, repository.StatusFailed)
		return nil, err
	}

	if s.ledger != nil && runID != "" {
		if err := s.ledger.SetTotal(context.WithoutCancel(ctx), runID, tasks.Len()); err != nil {
			log.Warn("failed to record task total", "error", err)
		}
	}

	s.reporter.Start(s.SourceName, tasks.Len(), s.DryRun)
	walkErr := s.walk(ctx, runID, forest, result)

	result.Elapsed = time.Since(started)
	status := repository.FinalStatus(result.progress())
	if walkErr != nil {
		status = repository.StatusFailed
	}
	s.finishRun(ctx, runID, result.progress(), status)

	log.Info("migration finished",
		"status", status,
		"created", result.Created,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"comments_added", result.CommentsAdded,
		"comments_failed", result.CommentsFailed,
	)
	s.reporter.Summary(result.summary(s.DryRun))

	return result, walkErr
}

type frame struct {
	taskID     string
	destParent string
}

// walk creates the forest depth-first in pre-order. Children are pushed in
// reverse so they pop in Subtasks order; a parent is always created before
// any of its children are submitted.
func (s *MigrationService) walk(ctx context.Context, runID string, forest *hierarchy.Forest, result *Result) error {
	log := s.logger.WithRun(runID).WithPhase("walk")
	visited := make(map[string]bool, forest.Tasks.Len())

	stack := make([]frame, 0, len(forest.Roots))
	for i := len(forest.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{taskID: forest.Roots[i]})
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			remaining := forest.Tasks.Len() - len(visited)
			result.Skipped += remaining
			log.Warn("migration cancelled", "remaining", remaining, "error", err)
			return fmt.Errorf("migration cancelled: %w", err)
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.taskID] {
			continue
		}
		visited[f.taskID] = true

		task, ok := forest.Tasks.Get(f.taskID)
		if !ok {
			continue
		}

		destID, err := s.migrateTask(ctx, runID, task, f.destParent, result)
		if err != nil {
			s.skipSubtree(ctx, runID, forest.Tasks, task, visited, result)
			continue
		}

		for i := len(task.Subtasks) - 1; i >= 0; i-- {
			child := task.Subtasks[i]
			if !visited[child] {
				stack = append(stack, frame{taskID: child, destParent: destID})
			}
		}
	}
	return nil
}

// migrateTask creates one task and attaches its notes. A non-nil error is
// always a *CreationError; comment failures are only recorded.
func (s *MigrationService) migrateTask(ctx context.Context, runID string, task *models.Task, destParent string, result *Result) (string, error) {
	log := s.logger.WithRun(runID).With("task_id", task.ID, "list_id", task.ListID)

	route, err := s.routes.Lookup(task.ListID)
	if err != nil {
		return "", s.creationFailed(ctx, runID, task, err, result)
	}

	params := BuildCreateParams(task, route, destParent)
	ref, err := s.dest.CreateTask(ctx, params)
	if err == nil && (ref == nil || ref.ID == "") {
		err = ErrMissingID
	}
	if err != nil {
		return "", s.creationFailed(ctx, runID, task, err, result)
	}

	result.Created++
	result.IDs[task.ID] = ref.ID
	log.Info("task created", "dest_task_id", ref.ID, "parent_dest_id", destParent)
	s.reporter.Created(task.ID, task.ListID, params.Content, ref.ID)
	s.record(ctx, runID, &repository.TaskMapping{
		SourceTaskID: task.ID,
		ListID:       task.ListID,
		DestTaskID:   ref.ID,
		Status:       repository.MappingSuccess,
	})

	for i, note := range task.Notes {
		if _, err := s.dest.AddComment(ctx, ref.ID, note); err != nil {
			cerr := &CommentError{TaskID: task.ID, ListID: task.ListID, DestTaskID: ref.ID, Note: i, Err: err}
			result.CommentsFailed++
			result.Errors = append(result.Errors, cerr)
			log.Warn("failed to add comment", "dest_task_id", ref.ID, "note", i, "error", err)
			s.reporter.CommentFailed(task.ID, task.ListID, cerr)
			s.record(ctx, runID, &repository.TaskMapping{
				SourceTaskID: task.ID,
				ListID:       task.ListID,
				DestTaskID:   ref.ID,
				Status:       repository.MappingCommentFailed,
				ErrorMessage: cerr.Error(),
			})
			continue
		}
		result.CommentsAdded++
	}

	return ref.ID, nil
}

func (s *MigrationService) creationFailed(ctx context.Context, runID string, task *models.Task, err error, result *Result) error {
	cerr := &CreationError{TaskID: task.ID, ListID: task.ListID, Text: task.Text, Err: err}
	result.Failed++
	result.Errors = append(result.Errors, cerr)
	s.logger.WithRun(runID).Error("failed to create task", "task_id", task.ID, "list_id", task.ListID, "error", err)
	s.reporter.Failed(task.ID, task.ListID, cerr)
	s.record(ctx, runID, &repository.TaskMapping{
		SourceTaskID: task.ID,
		ListID:       task.ListID,
		Status:       repository.MappingFailed,
		ErrorMessage: cerr.Error(),
	})
	return cerr
}

// skipSubtree abandons every not yet visited descendant of a failed task.
func (s *MigrationService) skipSubtree(ctx context.Context, runID string, tasks *models.TaskSet, failed *models.Task, visited map[string]bool, result *Result) {
	pending := slices.Clone(failed.Subtasks)
	for len(pending) > 0 {
		id := pending[0]
		pending = pending[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		task, ok := tasks.Get(id)
		if !ok {
			continue
		}
		result.Skipped++
		reason := fmt.Sprintf("ancestor task %s was not created", failed.ID)
		s.logger.WithRun(runID).Warn("task skipped", "task_id", task.ID, "list_id", task.ListID, "ancestor_id", failed.ID)
		s.reporter.Skipped(task.ID, task.ListID, reason)
		s.record(ctx, runID, &repository.TaskMapping{
			SourceTaskID: task.ID,
			ListID:       task.ListID,
			Status:       repository.MappingSkipped,
			ErrorMessage: fmt.Errorf("%s: %w", reason, ErrParentAbort).Error(),
		})
		pending = append(pending, task.Subtasks...)
	}
}

// BuildCreateParams translates a task into a destination create request.
// destParent is the destination id of the already created parent, or "".
func BuildCreateParams(task *models.Task, route models.Route, destParent string) models.CreateTaskParams {
	params := models.CreateTaskParams{
		Content:     task.Text,
		Description: task.URL,
		Priority:    task.Priority,
		ParentID:    destParent,
		Labels:      task.Tags.Sorted(),
	}
	params.ProjectID, params.SectionID = routing.Placement(route)

	switch {
	case task.Due == "":
	case normalize.IsDateOnly(task.Due):
		params.DueDate = task.Due
	default:
		params.DueDatetime = task.Due
	}

	if task.Repeat != nil {
		if task.Repeat.Human != "" {
			params.Content += " " + task.Repeat.Human
		}
		if !task.Tags.Has(RecurrenceLabel) {
			params.Labels = append(params.Labels, RecurrenceLabel)
		}
	}
	return params
}

func (s *MigrationService) startRun(ctx context.Context, query string) string {
	if s.ledger == nil {
		return ""
	}
	id, err := s.ledger.StartRun(context.WithoutCancel(ctx), &repository.Migration{
		Source:      s.SourceName,
		Destination: s.DestinationName,
		Query:       query,
		DryRun:      s.DryRun,
	})
	if err != nil {
		s.logger.Warn("failed to start ledger run", "error", err)
		return ""
	}
	return id
}

func (s *MigrationService) finishRun(ctx context.Context, runID string, p repository.Progress, status string) {
	if s.ledger == nil || runID == "" {
		return
	}
	if err := s.ledger.FinishRun(context.WithoutCancel(ctx), runID, p, status); err != nil {
		s.logger.WithRun(runID).Warn("failed to finish ledger run", "error", err)
	}
}

func (s *MigrationService) record(ctx context.Context, runID string, m *repository.TaskMapping) {
	if s.ledger == nil || runID == "" {
		return
	}
	m.MigrationID = runID
	if err := s.ledger.RecordTask(context.WithoutCancel(ctx), m); err != nil {
		s.logger.WithRun(runID).Warn("failed to record task", "task_id", m.SourceTaskID, "error", err)
	}
}

type nopReporter struct{}

func (nopReporter) Start(string, int, bool)                {}
func (nopReporter) Created(string, string, string, string) {}
func (nopReporter) Failed(string, string, error)           {}
func (nopReporter) CommentFailed(string, string, error)    {}
func (nopReporter) Skipped(string, string, string)         {}
func (nopReporter) Warning(string)                         {}
func (nopReporter) Summary(console.Summary)                {}
