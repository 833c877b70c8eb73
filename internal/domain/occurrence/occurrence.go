// internal/domain/occurrence/occurrence.go
package occurrence

import (
	"context"
	"time"
)

// Known occurrence types. The follow-up offset policy keys on these; any
// other type falls back to the default offset.
const (
	TypeFalta        = "falta"
	TypeLesao        = "lesão"
	TypeCancelamento = "cancelamento"
	TypeReclamacao   = "reclamação"
)

// Occurrence is one row of student_occurrences: an event recorded against a
// student that triggers the reactive follow-up anchor.
type Occurrence struct {
	ID          string
	StudentID   string
	OrgID       string
	Type        string
	Description string
	CreatedAt   time.Time
}

// Repository defines read-only access to student_occurrences.
type Repository interface {
	// GetForStudent returns the occurrence only when it exists and belongs
	// to the given student.
	GetForStudent(ctx context.Context, occurrenceID, studentID string) (*Occurrence, error)
}
