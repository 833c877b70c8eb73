// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/occurrence"
	"relationship_engine/internal/domain/service"
	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/task"
	"relationship_engine/internal/domain/template"
	"relationship_engine/internal/variables"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreatedBySystem marks task rows inserted by the engine rather than a user.
const CreatedBySystem = "sistema"

// Deps carries everything a strategy needs, constructed once by the
// composition root and passed down. Now is injectable for tests and
// defaults to time.Now.
type Deps struct {
	Students    student.Repository
	Tasks       task.Repository
	Services    service.Repository
	Occurrences occurrence.Repository
	Logger      *logrus.Logger
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return d
}

// core is embedded by every strategy: repositories, clock and the shared
// batch-processing loop.
type core struct {
	deps Deps
}

func (c *core) now() time.Time {
	return c.deps.Now()
}

func (c *core) log() *logrus.Logger {
	return c.deps.Logger
}

// effectiveOffset resolves the day offset for a temporal anchor: the
// template's temporal_offset_days wins over the config offset, which wins
// over the strategy default.
func effectiveOffset(tpl template.Template, cfg *anchor.Config, def int) int {
	if tpl.TemporalOffsetDays != nil {
		return *tpl.TemporalOffsetDays
	}
	if cfg != nil && cfg.OffsetDays != nil {
		return *cfg.OffsetDays
	}
	return def
}

// filterStudents applies the optional student_ids additional filter.
func filterStudents(students []*student.Student, cfg *anchor.Config) []*student.Student {
	ids, ok := cfg.Filter("student_ids").([]string)
	if !ok || len(ids) == 0 {
		return students
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]*student.Student, 0, len(students))
	for _, s := range students {
		if wanted[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// batchStrategy is the internal contract the shared loop runs against: the
// public Strategy surface plus the per-anchor duplicate check and the
// per-template config resolution.
type batchStrategy interface {
	anchor.Strategy
	isDuplicate(ctx context.Context, s *student.Student, tpl template.Template, res *anchor.Result) (bool, error)
	configForTemplate(tpl template.Template, cfg *anchor.Config) *anchor.Config
}

// configForTemplate is the default: no per-template adjustment. Temporal
// strategies override it to apply the template offset.
func (c *core) configForTemplate(_ template.Template, cfg *anchor.Config) *anchor.Config {
	return cfg
}

// processAnchor is the batch loop shared by all six strategies: fetch
// candidates, evaluate every template × student pair, guard against
// duplicates, insert pending tasks. Per-student failures are recorded and
// never abort the batch.
func (c *core) processAnchor(ctx context.Context, bs batchStrategy, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	started := c.now()
	stats := &anchor.Stats{}

	students := filterStudents(bs.FetchEligibleStudents(ctx, orgID, cfg), cfg)
	stats.StudentsFound = len(students)

	ownTemplates := TemplatesForAnchor(templates, bs.Code())
	if len(ownTemplates) == 0 {
		c.log().WithFields(logrus.Fields{"anchor": bs.Code(), "org_id": orgID}).
			Debug("no active templates for anchor, nothing to schedule")
	}

	for _, tpl := range ownTemplates {
		for _, s := range students {
			if err := c.processStudent(ctx, bs, s, tpl, cfg, stats); err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("aluno %s: %v", s.Name, err))
				c.log().WithFields(logrus.Fields{
					"anchor":     bs.Code(),
					"student_id": s.ID,
					"template":   tpl.Code,
				}).Warnf("student processing failed: %v", err)
			}
		}
	}

	stats.DurationMS = c.now().Sub(started).Milliseconds()
	c.log().WithFields(logrus.Fields{
		"anchor":         bs.Code(),
		"org_id":         orgID,
		"students_found": stats.StudentsFound,
		"tasks_created":  stats.TasksCreated,
		"tasks_skipped":  stats.TasksSkipped,
		"errors":         len(stats.Errors),
		"duration_ms":    stats.DurationMS,
	}).Info("anchor batch finished")
	return stats
}

func (c *core) processStudent(ctx context.Context, bs batchStrategy, s *student.Student, tpl template.Template, cfg *anchor.Config, stats *anchor.Stats) error {
	res := bs.ShouldCreateTask(ctx, s, bs.configForTemplate(tpl, cfg))
	if !res.ShouldCreate {
		stats.TasksSkipped++
		return nil
	}

	dup, err := bs.isDuplicate(ctx, s, tpl, res)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if dup {
		stats.TasksSkipped++
		return nil
	}

	t, err := c.buildTask(bs, s, tpl, res)
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}
	if err := c.deps.Tasks.Create(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	stats.TasksCreated++
	return nil
}

// buildTask assembles the pending task row: rendered message, extracted
// variable values and the anchor context, all folded into the payload.
func (c *core) buildTask(bs batchStrategy, s *student.Student, tpl template.Template, res *anchor.Result) (*task.Task, error) {
	vctx, err := variables.NewContextBuilder().
		WithStudent(s).
		WithAnchor(res.AnchorData).
		WithNow(c.now()).
		Build()
	if err != nil {
		return nil, err
	}

	rendered, used := variables.RenderMessage(tpl.MessageV1, vctx)

	payload := map[string]any{
		"message":          rendered,
		"template_message": tpl.MessageV1,
		"anchor_date":      res.AnchorData.AnchorDate.Format(anchor.DateLayout),
		"student": map[string]any{
			"id":   s.ID,
			"name": s.Name,
		},
	}
	values := make(map[string]any, len(used))
	for _, name := range used {
		values[name] = variables.Extract(vctx, variables.Name(name))
	}
	payload["variables"] = values
	for k, v := range bs.GenerateAnchorContext(s, res.AnchorData) {
		payload[k] = v
	}

	return &task.Task{
		ID:            uuid.NewString(),
		StudentID:     s.ID,
		OrgID:         s.OrgID,
		TemplateCode:  tpl.Code,
		Anchor:        bs.Code(),
		ScheduledFor:  *res.ScheduledDate,
		Channel:       tpl.ChannelDefault,
		Status:        task.StatusPending,
		Payload:       payload,
		VariablesUsed: used,
		CreatedBy:     CreatedBySystem,
		CreatedAt:     c.now(),
	}, nil
}

// sameScheduledDay is the duplicate check shared by the temporal and
// birthday anchors: one task per student/template/anchor per calendar day
// of the computed scheduled date.
func (c *core) sameScheduledDay(ctx context.Context, code anchor.EventCode, s *student.Student, tpl template.Template, res *anchor.Result) (bool, error) {
	return c.deps.Tasks.ExistsForDay(ctx, s.ID, tpl.Code, code, anchor.TruncateDay(*res.ScheduledDate))
}
