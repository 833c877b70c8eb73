package engine

import (
	"context"
	"testing"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/template"
)

func TestCreateStrategyUnknownCodeIsHardError(t *testing.T) {
	factory := NewFactory(newFixtures().deps())

	if _, err := factory.CreateStrategy("invalid_code"); err == nil {
		t.Fatal("expected error for unknown anchor code")
	}
	if _, err := factory.CreateStrategies([]anchor.EventCode{anchor.EventBirthday, "nope"}); err == nil {
		t.Fatal("expected error when any code is unknown")
	}
}

func TestCreateStrategyBirthday(t *testing.T) {
	factory := NewFactory(newFixtures().deps())

	s, err := factory.CreateStrategy(anchor.EventBirthday)
	if err != nil {
		t.Fatalf("CreateStrategy: %v", err)
	}
	if s.Type() != anchor.TypeRecurrent {
		t.Errorf("type = %s, want recurrent", s.Type())
	}
	if s.Code() != anchor.EventBirthday {
		t.Errorf("code = %s, want birthday", s.Code())
	}
}

func TestAllStrategiesCoverEveryCode(t *testing.T) {
	factory := NewFactory(newFixtures().deps())

	all := factory.AllStrategies()
	if len(all) != len(anchor.AllEventCodes()) {
		t.Fatalf("AllStrategies returned %d, want %d", len(all), len(anchor.AllEventCodes()))
	}

	seen := make(map[anchor.EventCode]bool)
	for _, s := range all {
		seen[s.Code()] = true
	}
	for _, code := range anchor.AllEventCodes() {
		if !seen[code] {
			t.Errorf("missing strategy for %s", code)
		}
	}
}

func TestStrategiesByType(t *testing.T) {
	factory := NewFactory(newFixtures().deps())

	if got := len(factory.StrategiesByType(anchor.TypeTemporal)); got != 3 {
		t.Errorf("temporal strategies = %d, want 3", got)
	}
	if got := len(factory.StrategiesByType(anchor.TypeRecurrent)); got != 2 {
		t.Errorf("recurrent strategies = %d, want 2", got)
	}
	if got := len(factory.StrategiesByType(anchor.TypeReactive)); got != 1 {
		t.Errorf("reactive strategies = %d, want 1", got)
	}
}

func TestExecuteMultipleStrategiesSettlesIndependently(t *testing.T) {
	f := newFixtures()
	st := mkStudent("stu-1", "Maria Clara Souza")
	st.BirthDate = nullTime(time.Date(1996, time.August, 31, 0, 0, 0, 0, time.UTC))
	f.students.students = append(f.students.students, st)

	factory := NewFactory(f.deps())
	results := factory.ExecuteMultipleStrategies(context.Background(),
		[]anchor.EventCode{anchor.EventBirthday, "broken_code", anchor.EventSaleClose},
		"org1", []template.Template{birthdayTemplate()}, nil)

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	byCode := make(map[anchor.EventCode]ExecutionResult)
	for _, r := range results {
		byCode[r.EventCode] = r
	}

	if r := byCode["broken_code"]; r.Success || r.Error == "" {
		t.Error("unknown code must settle as a failed result")
	}
	if r := byCode[anchor.EventBirthday]; !r.Success || r.Stats.TasksCreated != 1 {
		t.Errorf("birthday result = %+v", r)
	}
	if r := byCode[anchor.EventSaleClose]; !r.Success {
		t.Errorf("sale_close should succeed with zero candidates: %+v", r)
	}
}
