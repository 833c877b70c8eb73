// internal/domain/template/repository.go
package template

import (
	"context"

	"relationship_engine/internal/domain/event"
)

// Repository defines read-only access to relationship_templates_v2.
type Repository interface {
	// ListActive returns all active templates for an organization.
	ListActive(ctx context.Context, orgID string) ([]Template, error)

	// ListActiveByAnchor returns active templates tagged with one anchor
	// code (used by the occurrence-creation trigger).
	ListActiveByAnchor(ctx context.Context, orgID string, code event.Code) ([]Template, error)
}
