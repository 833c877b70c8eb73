package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"relationship_engine/internal/domain/student"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const studentColumns = `id, name, email, phone, created_at, org_id, status,
               birth_date, first_workout_date, last_workout_date, trainer_id`

// PostgresStudentRepository reads the students table. The engine never
// writes student rows.
type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

func scanStudent(row interface{ Scan(...any) error }) (*student.Student, error) {
	s := &student.Student{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.CreatedAt, &s.OrgID, &s.Status,
		&s.BirthDate, &s.FirstWorkoutDate, &s.LastWorkoutDate, &s.TrainerID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresStudentRepository) ListActive(ctx context.Context, orgID string) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students WHERE org_id = $1 AND status = 'active' ORDER BY name`
	return r.list(ctx, query, orgID)
}

func (r *PostgresStudentRepository) ListActiveCreatedOn(ctx context.Context, orgID string, day time.Time) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE org_id = $1 AND status = 'active'
                 AND created_at >= $2 AND created_at < $3
               ORDER BY name`
	return r.list(ctx, query, orgID, day, day.AddDate(0, 0, 1))
}

func (r *PostgresStudentRepository) ListActiveFirstWorkoutOn(ctx context.Context, orgID string, day time.Time) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE org_id = $1 AND status = 'active'
                 AND first_workout_date >= $2 AND first_workout_date < $3
               ORDER BY name`
	return r.list(ctx, query, orgID, day, day.AddDate(0, 0, 1))
}

func (r *PostgresStudentRepository) ListActiveWithBirthDate(ctx context.Context, orgID string) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE org_id = $1 AND status = 'active' AND birth_date IS NOT NULL
               ORDER BY name`
	return r.list(ctx, query, orgID)
}

func (r *PostgresStudentRepository) ListActiveLastWorkoutBetween(ctx context.Context, orgID string, from, to time.Time) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE org_id = $1 AND status = 'active'
                 AND last_workout_date >= $2 AND last_workout_date < $3
               ORDER BY name`
	return r.list(ctx, query, orgID, from, to.AddDate(0, 0, 1))
}

func (r *PostgresStudentRepository) list(ctx context.Context, query string, args ...any) ([]*student.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}
