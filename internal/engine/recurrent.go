// internal/engine/recurrent.go
package engine

import (
	"context"
	"fmt"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/template"
	"relationship_engine/internal/variables"

	"github.com/sirupsen/logrus"
)

// DefaultFollowupTargetDays is how many days without training trigger the
// follow-up contact. Overridable per run via the target_days filter.
const DefaultFollowupTargetDays = 7

const targetDaysFilter = "target_days"

// BirthdayStrategy fires every year on the student's birth month/day.
// The send is always same-day.
type BirthdayStrategy struct {
	core
}

func NewBirthdayStrategy(d Deps) *BirthdayStrategy {
	return &BirthdayStrategy{core{deps: d.withDefaults()}}
}

func (s *BirthdayStrategy) Type() anchor.StrategyType { return anchor.TypeRecurrent }
func (s *BirthdayStrategy) Code() anchor.EventCode    { return anchor.EventBirthday }

func (s *BirthdayStrategy) ShouldCreateTask(_ context.Context, st *student.Student, _ *anchor.Config) *anchor.Result {
	if !st.BirthDate.Valid {
		return anchor.Skip("aluno sem data de nascimento")
	}
	now := s.now()
	if !anchor.SameMonthDay(st.BirthDate.Time, now) {
		return anchor.Skip("aniversário não é hoje")
	}
	age := anchor.CalculateAge(st.BirthDate.Time, now)
	return anchor.Create(now, &anchor.SpecificData{
		AnchorDate: anchor.TruncateDay(now),
		AnchorType: anchor.EventBirthday,
		AdditionalData: map[string]any{
			"age":        age,
			"birth_date": st.BirthDate.Time.Format("02/01"),
		},
	})
}

// FetchEligibleStudents pulls every active student with a birth date and
// filters the month/day match in memory. A linear scan is fine at gym
// roster scale; a date-part predicate in SQL would be the move for large
// tenant counts.
func (s *BirthdayStrategy) FetchEligibleStudents(ctx context.Context, orgID string, _ *anchor.Config) []*student.Student {
	students, err := s.deps.Students.ListActiveWithBirthDate(ctx, orgID)
	if err != nil {
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "org_id": orgID}).
			Errorf("fetch eligible students failed: %v", err)
		return nil
	}
	now := s.now()
	out := make([]*student.Student, 0)
	for _, st := range students {
		if st.BirthDate.Valid && anchor.SameMonthDay(st.BirthDate.Time, now) {
			out = append(out, st)
		}
	}
	return out
}

func (s *BirthdayStrategy) ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	return s.processAnchor(ctx, s, orgID, templates, cfg)
}

func (s *BirthdayStrategy) GenerateAnchorContext(st *student.Student, data *anchor.SpecificData) map[string]any {
	return map[string]any{
		"age":        data.AdditionalData["age"],
		"birth_date": data.AdditionalData["birth_date"],
		"greeting":   fmt.Sprintf("%s, %s!", anchor.TemporalGreeting(s.now()), st.FirstName()),
	}
}

func (s *BirthdayStrategy) isDuplicate(ctx context.Context, st *student.Student, tpl template.Template, res *anchor.Result) (bool, error) {
	return s.sameScheduledDay(ctx, s.Code(), st, tpl, res)
}

// TrainingFollowupStrategy fires when a student's days without training
// fall inside a ±1 day tolerance window around the target. It re-fires as
// time rolls forward, so the duplicate guard keys on today's calendar day.
type TrainingFollowupStrategy struct {
	core
}

func NewTrainingFollowupStrategy(d Deps) *TrainingFollowupStrategy {
	return &TrainingFollowupStrategy{core{deps: d.withDefaults()}}
}

func (s *TrainingFollowupStrategy) Type() anchor.StrategyType { return anchor.TypeRecurrent }
func (s *TrainingFollowupStrategy) Code() anchor.EventCode    { return anchor.EventTrainingFollowup }

func targetDays(cfg *anchor.Config) int {
	switch v := cfg.Filter(targetDaysFilter).(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return DefaultFollowupTargetDays
}

func (s *TrainingFollowupStrategy) ShouldCreateTask(_ context.Context, st *student.Student, cfg *anchor.Config) *anchor.Result {
	if !st.LastWorkoutDate.Valid {
		return anchor.Skip("aluno sem registro de treino")
	}
	now := s.now()
	target := targetDays(cfg)
	days := anchor.DaysSince(st.LastWorkoutDate.Time, now)
	if days < target-1 || days > target+1 {
		return anchor.Skip(fmt.Sprintf("fora da janela de acompanhamento (%d dias sem treinar)", days))
	}
	return anchor.Create(now, &anchor.SpecificData{
		AnchorDate: anchor.TruncateDay(st.LastWorkoutDate.Time),
		AnchorType: anchor.EventTrainingFollowup,
		AdditionalData: map[string]any{
			"days_without_training": days,
			"target_days":           target,
			"last_workout_date":     st.LastWorkoutDate.Time.Format(anchor.DateLayout),
		},
	})
}

func (s *TrainingFollowupStrategy) FetchEligibleStudents(ctx context.Context, orgID string, cfg *anchor.Config) []*student.Student {
	now := anchor.TruncateDay(s.now())
	target := targetDays(cfg)
	from := anchor.AddDays(now, -(target + 1))
	to := anchor.AddDays(now, -(target - 1))
	students, err := s.deps.Students.ListActiveLastWorkoutBetween(ctx, orgID, from, to)
	if err != nil {
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "org_id": orgID}).
			Errorf("fetch eligible students failed: %v", err)
		return nil
	}
	return students
}

func (s *TrainingFollowupStrategy) ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	return s.processAnchor(ctx, s, orgID, templates, cfg)
}

func (s *TrainingFollowupStrategy) GenerateAnchorContext(st *student.Student, data *anchor.SpecificData) map[string]any {
	return map[string]any{
		"days_without_training": data.AdditionalData["days_without_training"],
		"last_workout_date":     data.AdditionalData["last_workout_date"],
		"training_frequency":    variables.Extract(&variables.Context{Student: st, Now: s.now()}, variables.FrequenciaTreino),
		"first_name":            st.FirstName(),
	}
}

// isDuplicate keys on today's day, not the anchor day: this anchor fires
// repeatedly as time rolls forward.
func (s *TrainingFollowupStrategy) isDuplicate(ctx context.Context, st *student.Student, tpl template.Template, _ *anchor.Result) (bool, error) {
	return s.deps.Tasks.ExistsForDay(ctx, st.ID, tpl.Code, s.Code(), anchor.TruncateDay(s.now()))
}
