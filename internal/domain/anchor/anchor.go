// internal/domain/anchor/anchor.go
package anchor

import (
	"time"

	"relationship_engine/internal/domain/event"
)

// EventCode identifies one of the six fixed anchor types. It is an alias
// for event.Code so the template package can share the type without an
// import cycle.
type EventCode = event.Code

const (
	EventSaleClose          EventCode = "sale_close"
	EventFirstWorkout       EventCode = "first_workout"
	EventRenewalWindow      EventCode = "renewal_window"
	EventBirthday           EventCode = "birthday"
	EventTrainingFollowup   EventCode = "training_followup"
	EventOccurrenceFollowup EventCode = "occurrence_followup"
)

// AllEventCodes lists every anchor code the engine knows about,
// in the order the daily sweep runs them.
func AllEventCodes() []EventCode {
	return []EventCode{
		EventSaleClose,
		EventFirstWorkout,
		EventRenewalWindow,
		EventBirthday,
		EventTrainingFollowup,
		EventOccurrenceFollowup,
	}
}

// StrategyType classifies how an anchor is driven.
type StrategyType string

const (
	TypeTemporal  StrategyType = "temporal"  // fixed reference date plus offset
	TypeRecurrent StrategyType = "recurrent" // calendar recurrence or rolling interval
	TypeReactive  StrategyType = "reactive"  // external trigger event
)

// Config is caller-supplied tuning for a strategy run.
type Config struct {
	OffsetDays        *int
	AnchorField       string
	AdditionalFilters map[string]any
}

// Filter returns the named additional filter, or nil when absent.
func (c *Config) Filter(name string) any {
	if c == nil || c.AdditionalFilters == nil {
		return nil
	}
	return c.AdditionalFilters[name]
}

// FilterString returns the named filter as a string, or "" when absent
// or not a string.
func (c *Config) FilterString(name string) string {
	s, _ := c.Filter(name).(string)
	return s
}

// SpecificData is the ephemeral record a strategy produces on every
// eligibility evaluation. It is never persisted directly; its contents
// are folded into the task payload.
type SpecificData struct {
	AnchorDate     time.Time
	AnchorType     EventCode
	AdditionalData map[string]any
}

// Result is a strategy's verdict for one student.
// Invariant: ShouldCreate is true iff both ScheduledDate and AnchorData
// are non-nil.
type Result struct {
	ShouldCreate  bool
	ScheduledDate *time.Time
	AnchorData    *SpecificData
	Reason        string
}

// Skip builds a negative Result with a human-readable reason.
func Skip(reason string) *Result {
	return &Result{ShouldCreate: false, Reason: reason}
}

// Create builds a positive Result.
func Create(scheduled time.Time, data *SpecificData) *Result {
	return &Result{ShouldCreate: true, ScheduledDate: &scheduled, AnchorData: data}
}

// Stats aggregates the outcome of one ProcessAnchor batch. Returned to the
// caller and logged; never persisted.
type Stats struct {
	StudentsFound int
	TasksCreated  int
	TasksUpdated  int
	TasksSkipped  int
	Errors        []string
	DurationMS    int64
}
