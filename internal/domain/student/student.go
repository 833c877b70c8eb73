// internal/domain/student/student.go
package student

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of a student record.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Student represents one gym student whose lifecycle events may trigger
// communications. Owned by the student-management subsystem; the scheduling
// engine only reads it. CreatedAt doubles as the sale/enrollment date.
type Student struct {
	ID               string
	Name             string
	Email            sql.NullString
	Phone            sql.NullString
	CreatedAt        time.Time
	OrgID            string
	Status           Status
	BirthDate        sql.NullTime
	FirstWorkoutDate sql.NullTime
	LastWorkoutDate  sql.NullTime
	TrainerID        sql.NullString
}

// FirstName returns the first word of the student's name.
func (s *Student) FirstName() string {
	for i, r := range s.Name {
		if r == ' ' {
			return s.Name[:i]
		}
	}
	return s.Name
}
