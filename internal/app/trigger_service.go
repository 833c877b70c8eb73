// internal/app/trigger_service.go
package app

import (
	"context"
	"fmt"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/template"
	"relationship_engine/internal/engine"

	"github.com/sirupsen/logrus"
)

// TriggerResult is what the occurrence-creation flow gets back. It never
// receives an error: a failed trigger must not abort occurrence creation.
type TriggerResult struct {
	Success bool
	Message string
}

// TriggerService is the synchronous entry point the occurrence-creation
// collaborator calls to kick off the reactive follow-up for one
// student/occurrence pair.
type TriggerService struct {
	students  student.Repository
	templates template.Repository
	strategy  *engine.OccurrenceFollowupStrategy
	logger    *logrus.Logger
}

func NewTriggerService(deps engine.Deps, templates template.Repository) *TriggerService {
	return &TriggerService{
		students:  deps.Students,
		templates: templates,
		strategy:  engine.NewOccurrenceFollowupStrategy(deps),
		logger:    deps.Logger,
	}
}

// OnOccurrenceCreated runs the occurrence follow-up strategy for the pair.
// All failure modes are converted into a TriggerResult.
func (s *TriggerService) OnOccurrenceCreated(ctx context.Context, occurrenceID, studentID, orgID string) TriggerResult {
	templates, err := s.templates.ListActiveByAnchor(ctx, orgID, anchor.EventOccurrenceFollowup)
	if err != nil {
		s.logger.WithField("org_id", orgID).Errorf("trigger: template fetch failed: %v", err)
		return TriggerResult{Success: false, Message: fmt.Sprintf("falha ao buscar templates: %v", err)}
	}
	if len(templates) == 0 {
		return TriggerResult{Success: true, Message: "nenhum template ativo para occurrence_followup"}
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		s.logger.WithField("student_id", studentID).Errorf("trigger: student lookup failed: %v", err)
		return TriggerResult{Success: false, Message: fmt.Sprintf("aluno não encontrado: %v", err)}
	}

	stats := s.strategy.TriggerOccurrenceFollowup(ctx, occurrenceID, studentID, orgID, templates)
	if len(stats.Errors) > 0 {
		return TriggerResult{
			Success: false,
			Message: fmt.Sprintf("follow-up com erros: %v", stats.Errors),
		}
	}
	return TriggerResult{
		Success: true,
		Message: fmt.Sprintf("%d tarefa(s) criada(s), %d ignorada(s)", stats.TasksCreated, stats.TasksSkipped),
	}
}
