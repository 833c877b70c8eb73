package database

import (
	"context"
	"database/sql"
	"fmt"

	"relationship_engine/internal/domain/occurrence"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresOccurrenceRepository reads student_occurrences; only the
// occurrence_followup anchor consults it.
type PostgresOccurrenceRepository struct {
	db *sql.DB
}

func NewPostgresOccurrenceRepository(db *sql.DB) *PostgresOccurrenceRepository {
	return &PostgresOccurrenceRepository{db: db}
}

func (r *PostgresOccurrenceRepository) GetForStudent(ctx context.Context, occurrenceID, studentID string) (*occurrence.Occurrence, error) {
	query := `SELECT id, student_id, org_id, type, description, created_at
               FROM student_occurrences WHERE id = $1 AND student_id = $2`

	o := &occurrence.Occurrence{}
	err := r.db.QueryRowContext(ctx, query, occurrenceID, studentID).
		Scan(&o.ID, &o.StudentID, &o.OrgID, &o.Type, &o.Description, &o.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOccurrenceNotFound
		}
		return nil, fmt.Errorf("error getting occurrence for student: %w", err)
	}
	return o, nil
}
