// internal/domain/task/repository.go
package task

import (
	"context"
	"time"

	"relationship_engine/internal/domain/anchor"
)

// Repository defines the engine's access to relationship_tasks: duplicate
// checks and inserts only, never updates or deletes.
type Repository interface {
	Create(ctx context.Context, t *Task) error

	// ExistsForDay reports whether a task already exists for the same
	// student/template/anchor whose scheduled_for falls on the same
	// calendar day. This is the best-effort idempotency guard; it is a
	// check-then-act pre-check, not a hard guarantee under concurrency.
	ExistsForDay(ctx context.Context, studentID, templateCode string, code anchor.EventCode, day time.Time) (bool, error)

	// ExistsForOccurrence reports whether any task for the student already
	// references the given occurrence id in its payload. The reactive
	// anchor keys idempotency on the occurrence, not the calendar day.
	ExistsForOccurrence(ctx context.Context, studentID, occurrenceID string) (bool, error)
}
