// internal/domain/task/task.go
package task

import (
	"time"

	"relationship_engine/internal/domain/anchor"
)

// Status of a scheduled communication task. The engine only ever inserts
// pending rows; later states belong to the delivery pipeline.
type Status string

const (
	StatusPending Status = "pending"
)

// Task is one row of relationship_tasks: a persisted, pending scheduled
// communication derived from a (student, template, anchor) match.
type Task struct {
	ID            string
	StudentID     string
	OrgID         string
	TemplateCode  string
	Anchor        anchor.EventCode
	ScheduledFor  time.Time
	Channel       string
	Status        Status
	Payload       map[string]any
	VariablesUsed []string
	CreatedBy     string
	CreatedAt     time.Time
}
