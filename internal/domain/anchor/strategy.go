// internal/domain/anchor/strategy.go
package anchor

import (
	"context"

	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/template"
)

// Strategy is implemented by each of the six anchor types.
type Strategy interface {
	// Type reports whether the anchor is temporal, recurrent or reactive.
	Type() StrategyType
	// Code is the stable anchor code used in templates and task rows.
	Code() EventCode

	// ShouldCreateTask decides, for a single student, whether a task should
	// be generated and for when. It performs no writes and is safe to call
	// repeatedly (e.g. for previews). The reactive strategy does read-only
	// lookups, which is why ctx is part of the signature.
	ShouldCreateTask(ctx context.Context, s *student.Student, cfg *Config) *Result

	// FetchEligibleStudents returns the candidate students for this anchor
	// within one organization. Query failures are logged and yield an empty
	// slice: one failing anchor type must not abort a larger run.
	FetchEligibleStudents(ctx context.Context, orgID string, cfg *Config) []*student.Student

	// ProcessAnchor runs the full batch: fetch, per-template × per-student
	// evaluation, duplicate guard, insert. Per-student errors are recorded
	// in Stats.Errors and never propagated.
	ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *Config) *Stats

	// GenerateAnchorContext projects anchor-specific fields (formatted
	// dates, computed counters) for embedding in the task payload.
	GenerateAnchorContext(s *student.Student, data *SpecificData) map[string]any
}
