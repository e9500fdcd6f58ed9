package repository

import (
	"context"
	"database/sql"
)

// Ledger records migration runs and the outcome of every attempted task.
// It is written during a run and never consulted to decide what to migrate.
type Ledger struct {
	Migrations   *MigrationRepository
	TaskMappings *TaskMappingRepository
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{
		Migrations:   NewMigrationRepository(db),
		TaskMappings: NewTaskMappingRepository(db),
	}
}

func (l *Ledger) StartRun(ctx context.Context, m *Migration) (string, error) {
	return l.Migrations.Create(ctx, m)
}

func (l *Ledger) SetTotal(ctx context.Context, runID string, total int) error {
	return l.Migrations.UpdateTotalTasks(ctx, runID, total)
}

func (l *Ledger) RecordTask(ctx context.Context, m *TaskMapping) error {
	return l.TaskMappings.Create(ctx, m)
}

func (l *Ledger) FinishRun(ctx context.Context, runID string, p Progress, status string) error {
	if err := l.Migrations.UpdateProgress(ctx, runID, p); err != nil {
		return err
	}
	return l.Migrations.Complete(ctx, runID, status)
}

// FinalStatus maps run counters to the status stored on the migrations row.
func FinalStatus(p Progress) string {
	if p.Failed > 0 || p.CommentsFailed > 0 {
		return StatusCompletedWithErrors
	}
	return StatusCompleted
}
