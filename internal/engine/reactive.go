// internal/engine/reactive.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/occurrence"
	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/template"
	idb "relationship_engine/internal/infra/database"

	"github.com/sirupsen/logrus"
)

const (
	occurrenceIDFilter = "occurrence_id"
	studentIDFilter    = "student_id"
)

// occurrenceOffsets is the per-occurrence-type day offset policy. Not
// caller-configurable.
var occurrenceOffsets = map[string]int{
	occurrence.TypeFalta:        1,
	occurrence.TypeLesao:        3,
	occurrence.TypeCancelamento: 0,
	occurrence.TypeReclamacao:   1,
}

const defaultOccurrenceOffset = 1

func offsetForOccurrenceType(occType string) int {
	if off, ok := occurrenceOffsets[occType]; ok {
		return off
	}
	return defaultOccurrenceOffset
}

// OccurrenceFollowupStrategy is the one reactive anchor: it runs when an
// occurrence record is created for a student, not on a date sweep.
// Idempotency is keyed on the occurrence id carried in the task payload,
// not on a calendar day.
type OccurrenceFollowupStrategy struct {
	core
}

func NewOccurrenceFollowupStrategy(d Deps) *OccurrenceFollowupStrategy {
	return &OccurrenceFollowupStrategy{core{deps: d.withDefaults()}}
}

func (s *OccurrenceFollowupStrategy) Type() anchor.StrategyType { return anchor.TypeReactive }
func (s *OccurrenceFollowupStrategy) Code() anchor.EventCode    { return anchor.EventOccurrenceFollowup }

func (s *OccurrenceFollowupStrategy) ShouldCreateTask(ctx context.Context, st *student.Student, cfg *anchor.Config) *anchor.Result {
	occID := cfg.FilterString(occurrenceIDFilter)
	if occID == "" {
		return anchor.Skip("occurrence_id não informado")
	}

	occ, err := s.deps.Occurrences.GetForStudent(ctx, occID, st.ID)
	if err != nil {
		if errors.Is(err, idb.ErrOccurrenceNotFound) {
			return anchor.Skip("ocorrência não encontrada para o aluno")
		}
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "occurrence_id": occID}).
			Errorf("occurrence lookup failed: %v", err)
		return anchor.Skip("falha ao consultar a ocorrência")
	}

	anchorDate := anchor.TruncateDay(occ.CreatedAt)
	scheduled := anchor.AddDays(anchorDate, offsetForOccurrenceType(occ.Type))
	return anchor.Create(scheduled, &anchor.SpecificData{
		AnchorDate: anchorDate,
		AnchorType: anchor.EventOccurrenceFollowup,
		AdditionalData: map[string]any{
			"occurrence_id":          occ.ID,
			"occurrence_type":        occ.Type,
			"occurrence_description": occ.Description,
			"occurrence_date":        occ.CreatedAt,
		},
	})
}

// FetchEligibleStudents resolves the single student the trigger named via
// the student_id filter. A reactive anchor has no sweep population.
func (s *OccurrenceFollowupStrategy) FetchEligibleStudents(ctx context.Context, orgID string, cfg *anchor.Config) []*student.Student {
	studentID := cfg.FilterString(studentIDFilter)
	if studentID == "" {
		s.log().WithField("anchor", s.Code()).
			Warn("occurrence followup invoked without student_id filter")
		return nil
	}
	st, err := s.deps.Students.GetByID(ctx, studentID)
	if err != nil {
		s.log().WithFields(logrus.Fields{"anchor": s.Code(), "student_id": studentID}).
			Errorf("student lookup failed: %v", err)
		return nil
	}
	if st.OrgID != orgID || st.Status != student.StatusActive {
		return nil
	}
	return []*student.Student{st}
}

func (s *OccurrenceFollowupStrategy) ProcessAnchor(ctx context.Context, orgID string, templates []template.Template, cfg *anchor.Config) *anchor.Stats {
	return s.processAnchor(ctx, s, orgID, templates, cfg)
}

// TriggerOccurrenceFollowup wraps ProcessAnchor with the reactive filters
// pre-populated. This is the entry point the occurrence-creation flow uses.
func (s *OccurrenceFollowupStrategy) TriggerOccurrenceFollowup(ctx context.Context, occurrenceID, studentID, orgID string, templates []template.Template) *anchor.Stats {
	cfg := &anchor.Config{
		AdditionalFilters: map[string]any{
			occurrenceIDFilter: occurrenceID,
			studentIDFilter:    studentID,
		},
	}
	return s.ProcessAnchor(ctx, orgID, templates, cfg)
}

func (s *OccurrenceFollowupStrategy) GenerateAnchorContext(st *student.Student, data *anchor.SpecificData) map[string]any {
	return map[string]any{
		"occurrence_id":   data.AdditionalData["occurrence_id"],
		"occurrence_type": data.AdditionalData["occurrence_type"],
		"first_name":      st.FirstName(),
	}
}

func (s *OccurrenceFollowupStrategy) isDuplicate(ctx context.Context, st *student.Student, _ template.Template, res *anchor.Result) (bool, error) {
	occID, _ := res.AnchorData.AdditionalData["occurrence_id"].(string)
	if occID == "" {
		return false, fmt.Errorf("anchor data missing occurrence_id")
	}
	return s.deps.Tasks.ExistsForOccurrence(ctx, st.ID, occID)
}
