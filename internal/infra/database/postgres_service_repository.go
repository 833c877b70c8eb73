package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"relationship_engine/internal/domain/service"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresServiceRepository reads student_services; only the
// renewal_window anchor joins it.
type PostgresServiceRepository struct {
	db *sql.DB
}

func NewPostgresServiceRepository(db *sql.DB) *PostgresServiceRepository {
	return &PostgresServiceRepository{db: db}
}

func (r *PostgresServiceRepository) ListRenewalsDueBetween(ctx context.Context, orgID string, from, to time.Time) ([]*service.StudentService, error) {
	query := `SELECT id, student_id, org_id, next_renewal_date, renewal_status
               FROM student_services
               WHERE org_id = $1 AND renewal_status = $2
                 AND next_renewal_date >= $3 AND next_renewal_date < $4
               ORDER BY next_renewal_date`

	rows, err := r.db.QueryContext(ctx, query, orgID, service.RenewalStatusActive, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("error listing renewals due: %w", err)
	}
	defer rows.Close()

	services := make([]*service.StudentService, 0)
	for rows.Next() {
		s := &service.StudentService{}
		if err := rows.Scan(&s.ID, &s.StudentID, &s.OrgID, &s.NextRenewalDate, &s.RenewalStatus); err != nil {
			return nil, fmt.Errorf("error scanning student service: %w", err)
		}
		services = append(services, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student services: %w", err)
	}
	return services, nil
}
