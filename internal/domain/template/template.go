// internal/domain/template/template.go
package template

import "relationship_engine/internal/domain/event"

// Template is one row of relationship_templates_v2: a stored message
// pattern tagged with an anchor code, default channel and optional
// per-template day offset.
type Template struct {
	Code               string
	OrgID              string
	Anchor             event.Code
	MessageV1          string
	ChannelDefault     string
	Active             bool
	TemporalOffsetDays *int
	Variables          []string
}
