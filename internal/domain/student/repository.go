// internal/domain/student/repository.go
package student

import (
	"context"
	"time"
)

// Repository defines the read-only queries the engine runs against the
// students store.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Student, error)

	// ListActive returns all active students for an organization.
	ListActive(ctx context.Context, orgID string) ([]*Student, error)

	// ListActiveCreatedOn returns active students whose enrollment date
	// falls on the given calendar day (sale_close sweep).
	ListActiveCreatedOn(ctx context.Context, orgID string, day time.Time) ([]*Student, error)

	// ListActiveFirstWorkoutOn returns active students whose first workout
	// falls on the given calendar day.
	ListActiveFirstWorkoutOn(ctx context.Context, orgID string, day time.Time) ([]*Student, error)

	// ListActiveWithBirthDate returns active students carrying a birth
	// date; the birthday strategy filters month/day in memory.
	ListActiveWithBirthDate(ctx context.Context, orgID string) ([]*Student, error)

	// ListActiveLastWorkoutBetween returns active students whose last
	// workout falls inside [from, to] (training_followup window).
	ListActiveLastWorkoutBetween(ctx context.Context, orgID string, from, to time.Time) ([]*Student, error)
}
