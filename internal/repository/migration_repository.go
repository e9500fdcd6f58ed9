package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
)

type Migration struct {
	Id             string
	Source         string
	Destination    string
	Query          string
	DryRun         bool
	Status         string
	TotalTasks     int
	CompletedTasks int
	FailedTasks    int
	SkippedTasks   int
	CommentsFailed int
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// Progress is the set of counters kept on a migrations row.
type Progress struct {
	Completed      int
	Failed         int
	Skipped        int
	CommentsFailed int
}

type MigrationRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewMigrationRepository(db *sql.DB) *MigrationRepository {
	return &MigrationRepository{db: db, now: time.Now}
}

// Create inserts the run and fills in Id and StartedAt when they are unset.
func (r *MigrationRepository) Create(ctx context.Context, migration *Migration) (string, error) {
	if migration.Id == "" {
		migration.Id = uuid.NewString()
	}
	if migration.StartedAt.IsZero() {
		migration.StartedAt = r.now().UTC()
	}
	if migration.Status == "" {
		migration.Status = StatusRunning
	}

	query := `
	INSERT INTO migrations (id, source, destination, query, dry_run, status, total_tasks, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		migration.Id,
		migration.Source,
		migration.Destination,
		migration.Query,
		migration.DryRun,
		migration.Status,
		migration.TotalTasks,
		migration.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("Error trying to create the migration: %w", err)
	}

	return migration.Id, nil
}

func (r *MigrationRepository) UpdateTotalTasks(ctx context.Context, id string, totalTasks int) error {
	query := `UPDATE migrations SET total_tasks = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, totalTasks, id)
	return err
}

func (r *MigrationRepository) UpdateProgress(ctx context.Context, id string, p Progress) error {
	query := `
	UPDATE migrations
	SET completed_tasks = ?, failed_tasks = ?, skipped_tasks = ?, comments_failed = ?
	WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, p.Completed, p.Failed, p.Skipped, p.CommentsFailed, id)
	return err
}

func (r *MigrationRepository) Complete(ctx context.Context, id string, status string) error {
	query := `UPDATE migrations SET status = ?, completed_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, r.now().UTC().Format(timeLayout), id)
	return err
}

const migrationColumns = `id, source, destination, query, dry_run, status, total_tasks,
	completed_tasks, failed_tasks, skipped_tasks, comments_failed, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMigration(row rowScanner) (Migration, error) {
	var (
		m           Migration
		startedAt   string
		completedAt sql.NullString
	)
	err := row.Scan(
		&m.Id,
		&m.Source,
		&m.Destination,
		&m.Query,
		&m.DryRun,
		&m.Status,
		&m.TotalTasks,
		&m.CompletedTasks,
		&m.FailedTasks,
		&m.SkippedTasks,
		&m.CommentsFailed,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return Migration{}, err
	}

	m.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return Migration{}, fmt.Errorf("Error trying to parse started_at: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return Migration{}, fmt.Errorf("Error trying to parse completed_at: %w", err)
		}
		m.CompletedAt = &t
	}
	return m, nil
}

// GetMigrations returns runs newest first, at most limit of them when limit > 0.
func (r *MigrationRepository) GetMigrations(ctx context.Context, limit int) ([]Migration, error) {
	query := `SELECT ` + migrationColumns + ` FROM migrations ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get migrations: %w", err)
	}
	defer rows.Close()

	var migrations []Migration
	for rows.Next() {
		m, err := scanMigration(rows)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, m)
	}

	return migrations, rows.Err()
}

func (r *MigrationRepository) GetMigration(ctx context.Context, id string) (Migration, error) {
	query := `SELECT ` + migrationColumns + ` FROM migrations WHERE id = ?`

	m, err := scanMigration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return Migration{}, fmt.Errorf("Error trying to get migration: %w", err)
	}

	return m, nil
}
