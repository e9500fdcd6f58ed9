package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	MappingSuccess       = "success"
	MappingFailed        = "failed"
	MappingSkipped       = "skipped"
	MappingCommentFailed = "comment_failed"
)

type TaskMapping struct {
	ID           int64
	MigrationID  string
	SourceTaskID string
	ListID       string
	DestTaskID   string
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

type TaskMappingRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaskMappingRepository(db *sql.DB) *TaskMappingRepository {
	return &TaskMappingRepository{db: db, now: time.Now}
}

func (r *TaskMappingRepository) Create(ctx context.Context, mapping *TaskMapping) error {
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = r.now().UTC()
	}

	query := `
		INSERT INTO task_mappings (migration_id, source_task_id, list_id, dest_task_id, status, error_message, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		mapping.MigrationID,
		mapping.SourceTaskID,
		mapping.ListID,
		nullable(mapping.DestTaskID),
		mapping.Status,
		nullable(mapping.ErrorMessage),
		mapping.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("Error trying to create task mapping: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		mapping.ID = id
	}
	return nil
}

// GetByMigrationID returns the rows of one run in insertion order.
func (r *TaskMappingRepository) GetByMigrationID(ctx context.Context, migrationID string) ([]TaskMapping, error) {
	query := `
		SELECT id, migration_id, source_task_id, list_id, dest_task_id, status, error_message, created_at
		FROM task_mappings WHERE migration_id = ? ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, migrationID)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get task mappings: %w", err)
	}
	defer rows.Close()

	var mappings []TaskMapping
	for rows.Next() {
		var (
			m          TaskMapping
			destTaskID sql.NullString
			errMsg     sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&m.ID, &m.MigrationID, &m.SourceTaskID, &m.ListID, &destTaskID, &m.Status, &errMsg, &createdAt); err != nil {
			return nil, err
		}
		m.DestTaskID = destTaskID.String
		m.ErrorMessage = errMsg.String
		if m.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("Error trying to parse created_at: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
