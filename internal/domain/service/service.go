// internal/domain/service/service.go
package service

import (
	"context"
	"database/sql"
	"time"
)

// RenewalStatusActive is the renewal state a service row must carry for the
// renewal_window anchor to consider it.
const RenewalStatusActive = "ativo"

// StudentService is one row of student_services, joined by the
// renewal_window anchor only.
type StudentService struct {
	ID              string
	StudentID       string
	OrgID           string
	NextRenewalDate sql.NullTime
	RenewalStatus   string
}

// Repository defines read-only access to student_services.
type Repository interface {
	// ListRenewalsDueBetween returns active-renewal service rows whose
	// next_renewal_date falls inside [from, to].
	ListRenewalsDueBetween(ctx context.Context, orgID string, from, to time.Time) ([]*StudentService, error)
}
