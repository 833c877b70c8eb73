package engine

import (
	"context"
	"testing"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/occurrence"
	"relationship_engine/internal/domain/template"
)

func occurrenceTemplate() template.Template {
	return template.Template{
		Code:           "ocorrencia-v1",
		OrgID:          "org1",
		Anchor:         anchor.EventOccurrenceFollowup,
		MessageV1:      "{PrimeiroNome}, como você está após a {TipoOcorrencia}?",
		ChannelDefault: "whatsapp",
		Active:         true,
	}
}

func occurrenceFixtures(occType string) (*fixtures, *OccurrenceFollowupStrategy) {
	f := newFixtures()
	f.students.students = append(f.students.students, mkStudent("stu-1", "Maria Clara Souza"))
	f.occurrences.occurrences = append(f.occurrences.occurrences, &occurrence.Occurrence{
		ID:          "abc",
		StudentID:   "stu-1",
		OrgID:       "org1",
		Type:        occType,
		Description: "registrado pela recepção",
		CreatedAt:   time.Date(2026, time.August, 28, 15, 30, 0, 0, time.UTC),
	})
	return f, NewOccurrenceFollowupStrategy(f.deps())
}

func TestOccurrenceOffsetsByType(t *testing.T) {
	created := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		occType string
		wantDay time.Time
	}{
		{occurrence.TypeLesao, created.AddDate(0, 0, 3)},
		{occurrence.TypeCancelamento, created},
		{occurrence.TypeFalta, created.AddDate(0, 0, 1)},
		{occurrence.TypeReclamacao, created.AddDate(0, 0, 1)},
		{"mudança de plano", created.AddDate(0, 0, 1)}, // unknown type uses the default
	}
	for _, tc := range cases {
		t.Run(tc.occType, func(t *testing.T) {
			f, s := occurrenceFixtures(tc.occType)
			cfg := &anchor.Config{AdditionalFilters: map[string]any{"occurrence_id": "abc"}}

			res := s.ShouldCreateTask(context.Background(), f.students.students[0], cfg)
			if !res.ShouldCreate {
				t.Fatalf("expected eligible, got reason %q", res.Reason)
			}
			if !res.ScheduledDate.Equal(tc.wantDay) {
				t.Errorf("scheduled = %v, want %v", res.ScheduledDate, tc.wantDay)
			}
		})
	}
}

func TestOccurrenceRequiresIDFilter(t *testing.T) {
	f, s := occurrenceFixtures(occurrence.TypeFalta)

	res := s.ShouldCreateTask(context.Background(), f.students.students[0], nil)
	if res.ShouldCreate {
		t.Fatal("expected ineligible without occurrence_id")
	}
	if res.Reason != "occurrence_id não informado" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestOccurrenceMustBelongToStudent(t *testing.T) {
	f, s := occurrenceFixtures(occurrence.TypeFalta)
	stranger := mkStudent("stu-9", "Outro Aluno")
	f.students.students = append(f.students.students, stranger)

	cfg := &anchor.Config{AdditionalFilters: map[string]any{"occurrence_id": "abc"}}
	if res := s.ShouldCreateTask(context.Background(), stranger, cfg); res.ShouldCreate {
		t.Error("occurrence of another student must not be eligible")
	}
}

func TestTriggerTwiceCreatesExactlyOneTask(t *testing.T) {
	f, s := occurrenceFixtures(occurrence.TypeLesao)
	templates := []template.Template{occurrenceTemplate()}

	first := s.TriggerOccurrenceFollowup(context.Background(), "abc", "stu-1", "org1", templates)
	if first.TasksCreated != 1 {
		t.Fatalf("first trigger created %d, errors %v", first.TasksCreated, first.Errors)
	}

	second := s.TriggerOccurrenceFollowup(context.Background(), "abc", "stu-1", "org1", templates)
	if second.TasksCreated != 0 || second.TasksSkipped != 1 {
		t.Errorf("second trigger created %d skipped %d, want 0/1", second.TasksCreated, second.TasksSkipped)
	}

	if len(f.tasks.tasks) != 1 {
		t.Fatalf("task count = %d, want 1", len(f.tasks.tasks))
	}
	if id, _ := f.tasks.tasks[0].Payload["occurrence_id"].(string); id != "abc" {
		t.Errorf("payload occurrence_id = %q, want abc", id)
	}
}

func TestTriggerScheduleUsesOccurrenceOffset(t *testing.T) {
	f, s := occurrenceFixtures(occurrence.TypeLesao)

	stats := s.TriggerOccurrenceFollowup(context.Background(), "abc", "stu-1", "org1",
		[]template.Template{occurrenceTemplate()})
	if stats.TasksCreated != 1 {
		t.Fatalf("created %d, errors %v", stats.TasksCreated, stats.Errors)
	}

	want := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC) // lesão: occurrence day + 3
	if got := f.tasks.tasks[0].ScheduledFor; !got.Equal(want) {
		t.Errorf("scheduled = %v, want %v", got, want)
	}
}
