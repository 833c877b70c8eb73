// internal/engine/utils.go
package engine

import (
	"fmt"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/template"
)

// GroupTemplatesByAnchor buckets templates by their anchor code.
func GroupTemplatesByAnchor(templates []template.Template) map[anchor.EventCode][]template.Template {
	out := make(map[anchor.EventCode][]template.Template)
	for _, tpl := range templates {
		out[tpl.Anchor] = append(out[tpl.Anchor], tpl)
	}
	return out
}

// FilterActiveTemplates drops inactive templates.
func FilterActiveTemplates(templates []template.Template) []template.Template {
	out := make([]template.Template, 0, len(templates))
	for _, tpl := range templates {
		if tpl.Active {
			out = append(out, tpl)
		}
	}
	return out
}

// ValidateTemplate checks a template is usable for the given anchor:
// matching anchor code, non-empty code and message, active flag set.
func ValidateTemplate(tpl template.Template, code anchor.EventCode) error {
	if tpl.Code == "" {
		return fmt.Errorf("template sem código")
	}
	if tpl.MessageV1 == "" {
		return fmt.Errorf("template %s sem mensagem", tpl.Code)
	}
	if !tpl.Active {
		return fmt.Errorf("template %s inativo", tpl.Code)
	}
	if tpl.Anchor != code {
		return fmt.Errorf("template %s pertence à âncora %s, não %s", tpl.Code, tpl.Anchor, code)
	}
	return nil
}

// TemplatesForAnchor returns the valid templates for one anchor code.
func TemplatesForAnchor(templates []template.Template, code anchor.EventCode) []template.Template {
	out := make([]template.Template, 0, len(templates))
	for _, tpl := range templates {
		if ValidateTemplate(tpl, code) == nil {
			out = append(out, tpl)
		}
	}
	return out
}

// ConsolidatedStats sums counts across several strategy runs while keeping
// the per-strategy breakdown.
type ConsolidatedStats struct {
	Total      anchor.Stats
	ByStrategy map[anchor.EventCode]*anchor.Stats
	Succeeded  int
	Failed     int
}

// ConsolidateStats merges the settled results of a multi-strategy run.
func ConsolidateStats(results []ExecutionResult) ConsolidatedStats {
	out := ConsolidatedStats{ByStrategy: make(map[anchor.EventCode]*anchor.Stats, len(results))}
	for _, r := range results {
		if !r.Success {
			out.Failed++
			out.Total.Errors = append(out.Total.Errors, fmt.Sprintf("%s: %s", r.EventCode, r.Error))
			continue
		}
		out.Succeeded++
		if r.Stats == nil {
			continue
		}
		out.ByStrategy[r.EventCode] = r.Stats
		out.Total.StudentsFound += r.Stats.StudentsFound
		out.Total.TasksCreated += r.Stats.TasksCreated
		out.Total.TasksUpdated += r.Stats.TasksUpdated
		out.Total.TasksSkipped += r.Stats.TasksSkipped
		out.Total.Errors = append(out.Total.Errors, r.Stats.Errors...)
		out.Total.DurationMS += r.Stats.DurationMS
	}
	return out
}
