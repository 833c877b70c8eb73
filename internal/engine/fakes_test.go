package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/occurrence"
	"relationship_engine/internal/domain/service"
	"relationship_engine/internal/domain/student"
	"relationship_engine/internal/domain/task"
	idb "relationship_engine/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// In-memory repository doubles. Constructor injection keeps the strategies
// oblivious to what backs their repositories.

type memStudentRepo struct {
	students []*student.Student
	failList bool
}

func (r *memStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, idb.ErrStudentNotFound
}

func (r *memStudentRepo) active(orgID string, keep func(*student.Student) bool) ([]*student.Student, error) {
	if r.failList {
		return nil, fmt.Errorf("storage unavailable")
	}
	out := make([]*student.Student, 0)
	for _, s := range r.students {
		if s.OrgID == orgID && s.Status == student.StatusActive && keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStudentRepo) ListActive(_ context.Context, orgID string) ([]*student.Student, error) {
	return r.active(orgID, func(*student.Student) bool { return true })
}

func (r *memStudentRepo) ListActiveCreatedOn(_ context.Context, orgID string, day time.Time) ([]*student.Student, error) {
	return r.active(orgID, func(s *student.Student) bool { return anchor.SameDay(s.CreatedAt, day) })
}

func (r *memStudentRepo) ListActiveFirstWorkoutOn(_ context.Context, orgID string, day time.Time) ([]*student.Student, error) {
	return r.active(orgID, func(s *student.Student) bool {
		return s.FirstWorkoutDate.Valid && anchor.SameDay(s.FirstWorkoutDate.Time, day)
	})
}

func (r *memStudentRepo) ListActiveWithBirthDate(_ context.Context, orgID string) ([]*student.Student, error) {
	return r.active(orgID, func(s *student.Student) bool { return s.BirthDate.Valid })
}

func (r *memStudentRepo) ListActiveLastWorkoutBetween(_ context.Context, orgID string, from, to time.Time) ([]*student.Student, error) {
	return r.active(orgID, func(s *student.Student) bool {
		if !s.LastWorkoutDate.Valid {
			return false
		}
		d := s.LastWorkoutDate.Time
		return !d.Before(from) && d.Before(to.AddDate(0, 0, 1))
	})
}

type memTaskRepo struct {
	tasks      []*task.Task
	failCreate bool
}

func (r *memTaskRepo) Create(_ context.Context, t *task.Task) error {
	if r.failCreate {
		return fmt.Errorf("insert failed")
	}
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *memTaskRepo) ExistsForDay(_ context.Context, studentID, templateCode string, code anchor.EventCode, day time.Time) (bool, error) {
	for _, t := range r.tasks {
		if t.StudentID == studentID && t.TemplateCode == templateCode && t.Anchor == code &&
			anchor.SameDay(t.ScheduledFor, day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTaskRepo) ExistsForOccurrence(_ context.Context, studentID, occurrenceID string) (bool, error) {
	for _, t := range r.tasks {
		if t.StudentID != studentID {
			continue
		}
		if id, ok := t.Payload["occurrence_id"].(string); ok && id == occurrenceID {
			return true, nil
		}
	}
	return false, nil
}

type memServiceRepo struct {
	rows []*service.StudentService
}

func (r *memServiceRepo) ListRenewalsDueBetween(_ context.Context, orgID string, from, to time.Time) ([]*service.StudentService, error) {
	out := make([]*service.StudentService, 0)
	for _, row := range r.rows {
		if row.OrgID != orgID || row.RenewalStatus != service.RenewalStatusActive || !row.NextRenewalDate.Valid {
			continue
		}
		d := row.NextRenewalDate.Time
		if !d.Before(from) && d.Before(to.AddDate(0, 0, 1)) {
			out = append(out, row)
		}
	}
	return out, nil
}

type memOccurrenceRepo struct {
	occurrences []*occurrence.Occurrence
}

func (r *memOccurrenceRepo) GetForStudent(_ context.Context, occurrenceID, studentID string) (*occurrence.Occurrence, error) {
	for _, o := range r.occurrences {
		if o.ID == occurrenceID && o.StudentID == studentID {
			return o, nil
		}
	}
	return nil, idb.ErrOccurrenceNotFound
}

// testNow is the fixed clock every engine test runs against:
// Monday 2026-08-31, 09:00 UTC.
var testNow = time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

type fixtures struct {
	students    *memStudentRepo
	tasks       *memTaskRepo
	services    *memServiceRepo
	occurrences *memOccurrenceRepo
}

func newFixtures() *fixtures {
	return &fixtures{
		students:    &memStudentRepo{},
		tasks:       &memTaskRepo{},
		services:    &memServiceRepo{},
		occurrences: &memOccurrenceRepo{},
	}
}

func (f *fixtures) deps() Deps {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Deps{
		Students:    f.students,
		Tasks:       f.tasks,
		Services:    f.services,
		Occurrences: f.occurrences,
		Logger:      log,
		Now:         func() time.Time { return testNow },
	}
}
