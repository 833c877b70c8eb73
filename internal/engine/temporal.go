// internal/engine/temporal.go
package engine

import (
	"context"
	"fmt"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/template"

	"github.com/sirupsen/logrus"
)

// Default day offsets for the temporal anchors. A template's
// temporal_offset_days or the caller's config offset override these.
const (
	DefaultSaleCloseOffset    = 0
	DefaultFirstWorkoutOffset = 1
	DefaultRenewalOffset      = -7

	defaultRenewalWindowDays = 7
	renewalDateFilter        = "renewal_date"
)

func offsetOr(cfg *anchor.Config, def int) int {
	if cfg != nil && cfg.OffsetDays != nil {
		return *cfg.OffsetDays
	}
	return def
}

// temporalConfig applies the template-level offset override before the
// per-student evaluation runs.
func temporalConfig(tpl template.Template, cfg *anchor.Config, def int) *anchor.Config {
	off := effectiveOffset(tpl, cfg, def)
	out := anchor.Config{OffsetDays: &off}
	if cfg != nil {
		out.AnchorField = cfg.AnchorField
		out.AdditionalFilters = cfg.AdditionalFilters
	}
	return &out
}

// SaleCloseStrategy schedules the welcome contact on the day a student's
// sale closes (enrollment date = today).
type SaleCloseStrategy struct {
	core
}

func NewSaleCloseStrategy(d Deps) *SaleCloseStrategy {
	return &SaleCloseStrategy{core{deps: d.withDefaults()}}
}

func (s *SaleCloseStrategy) Type() anchor.StrategyType { return anchor.TypeTemporal }
func (s *SaleCloseStrategy) Code() anchor.EventCode    { return anchor.EventSaleClose }

func (s *SaleCloseStrategy) ShouldCreateTask(_ context.Context, st *student.Student, cfg *anchor.Config) *anchor.Result {
	now := s.now()
	if !anchor.SameDay(st.CreatedAt, now) {
		return anchor.Skip("venda não foi fechada hoje")
	}
	anchorDate := anchor.TruncateDay(st.CreatedAt)
	scheduled := anchor.AddDays(anchorDate, offsetOr(cfg, DefaultSaleCloseOffset))
	return anchor.Create(scheduled, &anchor.SpecificData{
		AnchorDate: anchorDate,
		AnchorType: anchor.EventSaleClose,
		AdditionalData: map[string]any{
			"sale_date": st.CreatedAt.Format(anchor.DateLayout),
		},
	})
}

func (s *SaleCloseStrategy) FetchEligibleStudents(ctx context.Context, orgID string, _ *anchor.Config) []*student.Student {
	students, err := s.deps.Students.ListActiveCreatedOn(ctx, orgID, anchor.TruncateDay(s.now()))
	if err != nil {
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "org_id": orgID}).
			Errorf("fetch eligible students failed: %v", err)
		return nil
	}
	return students
}

func (s *SaleCloseStrategy) ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	return s.processAnchor(ctx, s, orgID, templates, cfg)
}

func (s *SaleCloseStrategy) GenerateAnchorContext(st *student.Student, data *anchor.SpecificData) map[string]any {
	return map[string]any{
		"sale_date":  data.AnchorDate.Format(anchor.DateLayout),
		"first_name": st.FirstName(),
	}
}

func (s *SaleCloseStrategy) configForTemplate(tpl template.Template, cfg *anchor.Config) *anchor.Config {
	return temporalConfig(tpl, cfg, DefaultSaleCloseOffset)
}

func (s *SaleCloseStrategy) isDuplicate(ctx context.Context, st *student.Student, tpl template.Template, res *anchor.Result) (bool, error) {
	return s.sameScheduledDay(ctx, s.Code(), st, tpl, res)
}

// FirstWorkoutStrategy schedules a check-in the day after a student's first
// recorded workout.
type FirstWorkoutStrategy struct {
	core
}

func NewFirstWorkoutStrategy(d Deps) *FirstWorkoutStrategy {
	return &FirstWorkoutStrategy{core{deps: d.withDefaults()}}
}

func (s *FirstWorkoutStrategy) Type() anchor.StrategyType { return anchor.TypeTemporal }
func (s *FirstWorkoutStrategy) Code() anchor.EventCode    { return anchor.EventFirstWorkout }

func (s *FirstWorkoutStrategy) ShouldCreateTask(_ context.Context, st *student.Student, cfg *anchor.Config) *anchor.Result {
	if !st.FirstWorkoutDate.Valid {
		return anchor.Skip("aluno sem data de primeiro treino")
	}
	now := s.now()
	if !anchor.SameDay(st.FirstWorkoutDate.Time, now) {
		return anchor.Skip("primeiro treino não foi hoje")
	}
	anchorDate := anchor.TruncateDay(st.FirstWorkoutDate.Time)
	scheduled := anchor.AddDays(anchorDate, offsetOr(cfg, DefaultFirstWorkoutOffset))
	return anchor.Create(scheduled, &anchor.SpecificData{
		AnchorDate: anchorDate,
		AnchorType: anchor.EventFirstWorkout,
		AdditionalData: map[string]any{
			"first_workout_date": anchorDate.Format(anchor.DateLayout),
		},
	})
}

func (s *FirstWorkoutStrategy) FetchEligibleStudents(ctx context.Context, orgID string, _ *anchor.Config) []*student.Student {
	students, err := s.deps.Students.ListActiveFirstWorkoutOn(ctx, orgID, anchor.TruncateDay(s.now()))
	if err != nil {
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "org_id": orgID}).
			Errorf("fetch eligible students failed: %v", err)
		return nil
	}
	return students
}

func (s *FirstWorkoutStrategy) ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	return s.processAnchor(ctx, s, orgID, templates, cfg)
}

func (s *FirstWorkoutStrategy) GenerateAnchorContext(st *student.Student, data *anchor.SpecificData) map[string]any {
	return map[string]any{
		"first_workout_date": data.AnchorDate.Format(anchor.DateLayout),
		"first_name":         st.FirstName(),
	}
}

func (s *FirstWorkoutStrategy) configForTemplate(tpl template.Template, cfg *anchor.Config) *anchor.Config {
	return temporalConfig(tpl, cfg, DefaultFirstWorkoutOffset)
}

func (s *FirstWorkoutStrategy) isDuplicate(ctx context.Context, st *student.Student, tpl template.Template, res *anchor.Result) (bool, error) {
	return s.sameScheduledDay(ctx, s.Code(), st, tpl, res)
}

// RenewalWindowStrategy schedules a renewal conversation ahead of the next
// renewal date of a student's active service. The renewal date reaches the
// per-student evaluation either through the renewal_date additional filter
// or through the cache FetchEligibleStudents fills from student_services.
type RenewalWindowStrategy struct {
	core
	renewals map[string]time.Time
}

func NewRenewalWindowStrategy(d Deps) *RenewalWindowStrategy {
	return &RenewalWindowStrategy{core: core{deps: d.withDefaults()}}
}

func (s *RenewalWindowStrategy) Type() anchor.StrategyType { return anchor.TypeTemporal }
func (s *RenewalWindowStrategy) Code() anchor.EventCode    { return anchor.EventRenewalWindow }

func (s *RenewalWindowStrategy) renewalDateFor(st *student.Student, cfg *anchor.Config) (time.Time, bool) {
	switch v := cfg.Filter(renewalDateFilter).(type) {
	case time.Time:
		return v, true
	case string:
		if d, err := time.Parse("2006-01-02", v); err == nil {
			return d, true
		}
	}
	d, ok := s.renewals[st.ID]
	return d, ok
}

func (s *RenewalWindowStrategy) ShouldCreateTask(_ context.Context, st *student.Student, cfg *anchor.Config) *anchor.Result {
	renewal, ok := s.renewalDateFor(st, cfg)
	if !ok {
		return anchor.Skip("data de renovação não informada")
	}
	now := s.now()
	daysUntil := anchor.DaysUntil(renewal, now)
	if daysUntil < 0 || daysUntil > defaultRenewalWindowDays {
		return anchor.Skip(fmt.Sprintf("renovação fora da janela (%d dias)", daysUntil))
	}
	anchorDate := anchor.TruncateDay(renewal)
	scheduled := anchor.AddDays(anchorDate, offsetOr(cfg, DefaultRenewalOffset))
	return anchor.Create(scheduled, &anchor.SpecificData{
		AnchorDate: anchorDate,
		AnchorType: anchor.EventRenewalWindow,
		AdditionalData: map[string]any{
			"renewal_date":       anchorDate,
			"days_until_renewal": daysUntil,
		},
	})
}

func (s *RenewalWindowStrategy) FetchEligibleStudents(ctx context.Context, orgID string, _ *anchor.Config) []*student.Student {
	now := anchor.TruncateDay(s.now())
	rows, err := s.deps.Services.ListRenewalsDueBetween(ctx, orgID, now, anchor.AddDays(now, defaultRenewalWindowDays))
	if err != nil {
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "org_id": orgID}).
			Errorf("fetch renewals failed: %v", err)
		return nil
	}

	s.renewals = make(map[string]time.Time, len(rows))
	students := make([]*student.Student, 0, len(rows))
	for _, row := range rows {
		if !row.NextRenewalDate.Valid {
			continue
		}
		st, err := s.deps.Students.GetByID(ctx, row.StudentID)
		if err != nil {
			s.log().WithFields(logrus.Fields{"anchor": s.Code(), "student_id": row.StudentID}).
				Warnf("skipping renewal row, student lookup failed: %v", err)
			continue
		}
		if st.OrgID != orgID || st.Status != student.StatusActive {
			continue
		}
		s.renewals[st.ID] = row.NextRenewalDate.Time
		students = append(students, st)
	}
	return students
}

func (s *RenewalWindowStrategy) ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	return s.processAnchor(ctx, s, orgID, templates, cfg)
}

func (s *RenewalWindowStrategy) GenerateAnchorContext(st *student.Student, data *anchor.SpecificData) map[string]any {
	return map[string]any{
		"renewal_date":       data.AnchorDate.Format(anchor.DateLayout),
		"days_until_renewal": data.AdditionalData["days_until_renewal"],
		"first_name":         st.FirstName(),
	}
}

func (s *RenewalWindowStrategy) configForTemplate(tpl template.Template, cfg *anchor.Config) *anchor.Config {
	return temporalConfig(tpl, cfg, DefaultRenewalOffset)
}

func (s *RenewalWindowStrategy) isDuplicate(ctx context.Context, st *student.Student, tpl template.Template, res *anchor.Result) (bool, error) {
	return s.sameScheduledDay(ctx, s.Code(), st, tpl, res)
}
