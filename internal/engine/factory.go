// internal/engine/factory.go
package engine

import (
	"context"
	"fmt"
	"sync"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/template"
)

// Factory maps the six fixed anchor codes to strategy instances. An unknown
// code is the one hard error in the engine: it indicates a programming
// mistake, not a data condition.
type Factory struct {
	deps Deps
}

func NewFactory(d Deps) *Factory {
	return &Factory{deps: d.withDefaults()}
}

// CreateStrategy returns a fresh strategy instance for the code.
func (f *Factory) CreateStrategy(code anchor.EventCode) (anchor.Strategy, error) {
	switch code {
	case anchor.EventSaleClose:
		return NewSaleCloseStrategy(f.deps), nil
	case anchor.EventFirstWorkout:
		return NewFirstWorkoutStrategy(f.deps), nil
	case anchor.EventRenewalWindow:
		return NewRenewalWindowStrategy(f.deps), nil
	case anchor.EventBirthday:
		return NewBirthdayStrategy(f.deps), nil
	case anchor.EventTrainingFollowup:
		return NewTrainingFollowupStrategy(f.deps), nil
	case anchor.EventOccurrenceFollowup:
		return NewOccurrenceFollowupStrategy(f.deps), nil
	default:
		return nil, fmt.Errorf("unknown anchor code: %q", code)
	}
}

// CreateStrategies resolves a list of codes, failing on the first unknown.
func (f *Factory) CreateStrategies(codes []anchor.EventCode) ([]anchor.Strategy, error) {
	out := make([]anchor.Strategy, 0, len(codes))
	for _, code := range codes {
		s, err := f.CreateStrategy(code)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// AllStrategies returns one instance of every anchor strategy.
func (f *Factory) AllStrategies() []anchor.Strategy {
	out, _ := f.CreateStrategies(anchor.AllEventCodes())
	return out
}

// StrategiesByType returns the strategies of one driving type.
func (f *Factory) StrategiesByType(t anchor.StrategyType) []anchor.Strategy {
	var out []anchor.Strategy
	for _, s := range f.AllStrategies() {
		if s.Type() == t {
			out = append(out, s)
		}
	}
	return out
}

// ExecutionResult is the settled outcome of one strategy run.
type ExecutionResult struct {
	EventCode anchor.EventCode
	Success   bool
	Stats     *anchor.Stats
	Error     string
}

// ExecuteStrategy runs a single anchor end to end.
func (f *Factory) ExecuteStrategy(ctx context.Context, code anchor.EventCode, orgID string, templates []template.Template, cfg *anchor.Config) ExecutionResult {
	s, err := f.CreateStrategy(code)
	if err != nil {
		return ExecutionResult{EventCode: code, Success: false, Error: err.Error()}
	}
	return f.runSettled(ctx, s, orgID, templates, cfg)
}

// ExecuteMultipleStrategies runs several anchors concurrently. Each result
// settles independently: one strategy's failure never blocks or aborts the
// others.
func (f *Factory) ExecuteMultipleStrategies(ctx context.Context, codes []anchor.EventCode, orgID string, templates []template.Template, cfg *anchor.Config) []ExecutionResult {
	results := make([]ExecutionResult, len(codes))
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code anchor.EventCode) {
			defer wg.Done()
			results[i] = f.ExecuteStrategy(ctx, code, orgID, templates, cfg)
		}(i, code)
	}
	wg.Wait()
	return results
}

// runSettled converts a panic inside one strategy into a failed result so
// sibling strategies keep running.
func (f *Factory) runSettled(ctx context.Context, s anchor.Strategy, orgID string, templates []template.Template, cfg *anchor.Config) (res ExecutionResult) {
	res.EventCode = s.Code()
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("strategy panic: %v", r)
			f.deps.Logger.WithField("anchor", s.Code()).Errorf("strategy panicked: %v", r)
		}
	}()
	res.Stats = s.ProcessAnchor(ctx, orgID, templates, cfg)
	res.Success = true
	return res
}
