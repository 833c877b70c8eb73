package database

import "fmt"

// Sentinel errors surfaced by the Postgres repositories.
var (
	ErrStudentNotFound    = fmt.Errorf("student not found")
	ErrOccurrenceNotFound = fmt.Errorf("occurrence not found")
)
