package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/task"

	"github.com/lib/pq"
)

// PostgresTaskRepository covers the engine's two needs on
// relationship_tasks: the duplicate pre-checks and the pending-row insert.
// Updates and deletes belong to the delivery pipeline.
type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *task.Task) error {
	payload, err := json.Marshal(t.Payload)
	if err != nil {
		return fmt.Errorf("error marshaling task payload: %w", err)
	}

	query := `INSERT INTO relationship_tasks
               (id, student_id, org_id, template_code, anchor, scheduled_for,
                channel, status, payload, variables_used, created_by, created_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.StudentID, t.OrgID, t.TemplateCode, string(t.Anchor), t.ScheduledFor,
		t.Channel, string(t.Status), payload, pq.Array(t.VariablesUsed), t.CreatedBy, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting relationship task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) ExistsForDay(ctx context.Context, studentID, templateCode string, code anchor.EventCode, day time.Time) (bool, error) {
	query := `SELECT EXISTS (
               SELECT 1 FROM relationship_tasks
               WHERE student_id = $1 AND template_code = $2 AND anchor = $3
                 AND scheduled_for >= $4 AND scheduled_for < $5)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		studentID, templateCode, string(code), day, day.AddDate(0, 0, 1)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking task for day: %w", err)
	}
	return exists, nil
}

func (r *PostgresTaskRepository) ExistsForOccurrence(ctx context.Context, studentID, occurrenceID string) (bool, error) {
	query := `SELECT EXISTS (
               SELECT 1 FROM relationship_tasks
               WHERE student_id = $1 AND payload->>'occurrence_id' = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, studentID, occurrenceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking task for occurrence: %w", err)
	}
	return exists, nil
}
