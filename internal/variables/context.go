// internal/variables/context.go
package variables

import (
	"fmt"
	"time"

	"relationship_engine/internal/domain/anchor"
	"relationship_engine/internal/domain/student"
)

// Organization is the slice of organization data message rendering needs.
type Organization struct {
	ID   string
	Name string
}

// Trainer is the slice of trainer data message rendering needs.
type Trainer struct {
	ID   string
	Name string
}

// Context is the composed read model variable extraction works from.
// Student is the only mandatory field.
type Context struct {
	Student      *student.Student
	Anchor       *anchor.SpecificData
	Organization *Organization
	Trainer      *Trainer
	Custom       map[string]string

	// Now anchors time-dependent variables (greeting, day counters) so
	// extraction is reproducible in tests. Defaults to time.Now at build.
	Now time.Time
}

// ContextBuilder assembles a Context fluently.
type ContextBuilder struct {
	ctx Context
}

func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

func (b *ContextBuilder) WithStudent(s *student.Student) *ContextBuilder {
	b.ctx.Student = s
	return b
}

func (b *ContextBuilder) WithAnchor(a *anchor.SpecificData) *ContextBuilder {
	b.ctx.Anchor = a
	return b
}

func (b *ContextBuilder) WithOrganization(o *Organization) *ContextBuilder {
	b.ctx.Organization = o
	return b
}

func (b *ContextBuilder) WithTrainer(t *Trainer) *ContextBuilder {
	b.ctx.Trainer = t
	return b
}

func (b *ContextBuilder) WithCustom(custom map[string]string) *ContextBuilder {
	b.ctx.Custom = custom
	return b
}

func (b *ContextBuilder) WithNow(now time.Time) *ContextBuilder {
	b.ctx.Now = now
	return b
}

// Build validates and returns the context. Student is the only field that
// can make construction fail.
func (b *ContextBuilder) Build() (*Context, error) {
	if b.ctx.Student == nil {
		return nil, fmt.Errorf("variable context requires a student")
	}
	out := b.ctx
	if out.Now.IsZero() {
		out.Now = time.Now()
	}
	return &out, nil
}
