package testutil

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// StepsBuilder builds ordered step lists for tests.
type StepsBuilder struct {
	steps []step.Step
}

// NewStepsBuilder creates an empty builder.
func NewStepsBuilder() *StepsBuilder {
	return &StepsBuilder{steps: make([]step.Step, 0)}
}

// Add appends a step titled after its id.
func (b *StepsBuilder) Add(id string, requires ...string) *StepsBuilder {
	b.steps = append(b.steps, step.Step{ID: id, Title: strings.ToUpper(id[:1]) + id[1:], Requires: requires})
	return b
}

// Skip makes the last added step skipped when fn returns true.
func (b *StepsBuilder) Skip(fn step.SkipFunc) *StepsBuilder {
	b.last().Skip = fn
	return b
}

// SkipAlways makes the last added step always skipped.
func (b *StepsBuilder) SkipAlways() *StepsBuilder {
	return b.Skip(func(step.Metadata) bool { return true })
}

// WithData attaches arbitrary data to the last added step.
func (b *StepsBuilder) WithData(key string, value any) *StepsBuilder {
	last := b.last()
	if last.Data == nil {
		last.Data = make(map[string]any)
	}
	last.Data[key] = value
	return b
}

// Build returns the steps.
func (b *StepsBuilder) Build() []step.Step {
	out := make([]step.Step, len(b.steps))
	copy(out, b.steps)
	return out
}

func (b *StepsBuilder) last() *step.Step {
	if len(b.steps) == 0 {
		panic("testutil: Skip/WithData called before Add")
	}
	return &b.steps[len(b.steps)-1]
}

// CheckoutSteps returns the four-step checkout flow used across tests:
// cart, shipping, payment (requires cart) and review.
func CheckoutSteps() []step.Step {
	return NewStepsBuilder().
		Add("cart").
		Add("shipping").
		Add("payment", "cart").
		Add("review").
		Build()
}

// TestDefinition is a simplified definition document for testing.
type TestDefinition struct {
	Name        string
	Mode        string
	InitialStep string
	PersistKey  string
	PersistTTL  string
	Steps       []TestStep
}

// TestStep is one step of a TestDefinition.
type TestStep struct {
	ID       string
	Title    string
	Requires []string
	Required []string
	SkipWhen *TestSkip
}

// TestSkip is a skipWhen clause.
type TestSkip struct {
	Step   string
	Field  string
	Equals string
}

// DefinitionBuilder builds definition documents.
type DefinitionBuilder struct {
	def TestDefinition
}

// NewDefinitionBuilder creates a builder for a definition called name.
func NewDefinitionBuilder(name string) *DefinitionBuilder {
	return &DefinitionBuilder{def: TestDefinition{Name: name}}
}

// WithMode sets the navigation mode.
func (b *DefinitionBuilder) WithMode(mode string) *DefinitionBuilder {
	b.def.Mode = mode
	return b
}

// WithInitialStep sets the initial step.
func (b *DefinitionBuilder) WithInitialStep(id string) *DefinitionBuilder {
	b.def.InitialStep = id
	return b
}

// WithPersist sets the persist block.
func (b *DefinitionBuilder) WithPersist(key, ttl string) *DefinitionBuilder {
	b.def.PersistKey = key
	b.def.PersistTTL = ttl
	return b
}

// WithStep adds a step.
func (b *DefinitionBuilder) WithStep(id string, requires ...string) *DefinitionBuilder {
	b.def.Steps = append(b.def.Steps, TestStep{ID: id, Requires: requires})
	return b
}

// WithTitle sets the title of the last added step.
func (b *DefinitionBuilder) WithTitle(title string) *DefinitionBuilder {
	b.def.Steps[len(b.def.Steps)-1].Title = title
	return b
}

// WithRequiredFields gives the last added step an object schema requiring fields.
func (b *DefinitionBuilder) WithRequiredFields(fields ...string) *DefinitionBuilder {
	b.def.Steps[len(b.def.Steps)-1].Required = fields
	return b
}

// WithSkipWhen skips the last added step when metadata[on][field] equals value.
func (b *DefinitionBuilder) WithSkipWhen(on, field, value string) *DefinitionBuilder {
	b.def.Steps[len(b.def.Steps)-1].SkipWhen = &TestSkip{Step: on, Field: field, Equals: value}
	return b
}

// Build returns the constructed definition.
func (b *DefinitionBuilder) Build() TestDefinition {
	return b.def
}

// ToYAML converts the definition to a YAML document.
func (d TestDefinition) ToYAML() string {
	var sb strings.Builder

	sb.WriteString("apiVersion: v1\n")
	sb.WriteString(fmt.Sprintf("name: %s\n", d.Name))
	if d.Mode != "" {
		sb.WriteString(fmt.Sprintf("mode: %s\n", d.Mode))
	}
	if d.InitialStep != "" {
		sb.WriteString(fmt.Sprintf("initialStep: %s\n", d.InitialStep))
	}
	if d.PersistKey != "" || d.PersistTTL != "" {
		sb.WriteString("persist:\n")
		if d.PersistKey != "" {
			sb.WriteString(fmt.Sprintf("  key: %s\n", d.PersistKey))
		}
		if d.PersistTTL != "" {
			sb.WriteString(fmt.Sprintf("  ttl: %s\n", d.PersistTTL))
		}
	}

	sb.WriteString("steps:\n")
	for _, s := range d.Steps {
		sb.WriteString(fmt.Sprintf("  - id: %s\n", s.ID))
		if s.Title != "" {
			sb.WriteString(fmt.Sprintf("    title: %q\n", s.Title))
		}
		if len(s.Requires) > 0 {
			sb.WriteString(fmt.Sprintf("    requires: [%s]\n", strings.Join(s.Requires, ", ")))
		}
		if len(s.Required) > 0 {
			sb.WriteString("    schema:\n")
			sb.WriteString("      type: object\n")
			sb.WriteString(fmt.Sprintf("      required: [%s]\n", strings.Join(s.Required, ", ")))
		}
		if s.SkipWhen != nil {
			sb.WriteString("    skipWhen:\n")
			sb.WriteString(fmt.Sprintf("      step: %s\n", s.SkipWhen.Step))
			sb.WriteString(fmt.Sprintf("      field: %s\n", s.SkipWhen.Field))
			sb.WriteString(fmt.Sprintf("      equals: %s\n", s.SkipWhen.Equals))
		}
	}

	return sb.String()
}

// ToTOML converts the definition to a TOML document.
func (d TestDefinition) ToTOML() string {
	var sb strings.Builder

	sb.WriteString("apiVersion = \"v1\"\n")
	sb.WriteString(fmt.Sprintf("name = %q\n", d.Name))
	if d.Mode != "" {
		sb.WriteString(fmt.Sprintf("mode = %q\n", d.Mode))
	}
	if d.InitialStep != "" {
		sb.WriteString(fmt.Sprintf("initialStep = %q\n", d.InitialStep))
	}
	if d.PersistKey != "" || d.PersistTTL != "" {
		sb.WriteString("\n[persist]\n")
		if d.PersistKey != "" {
			sb.WriteString(fmt.Sprintf("key = %q\n", d.PersistKey))
		}
		if d.PersistTTL != "" {
			sb.WriteString(fmt.Sprintf("ttl = %q\n", d.PersistTTL))
		}
	}

	for _, s := range d.Steps {
		sb.WriteString("\n[[steps]]\n")
		sb.WriteString(fmt.Sprintf("id = %q\n", s.ID))
		if s.Title != "" {
			sb.WriteString(fmt.Sprintf("title = %q\n", s.Title))
		}
		if len(s.Requires) > 0 {
			sb.WriteString(fmt.Sprintf("requires = [%s]\n", quoteAll(s.Requires)))
		}
		if len(s.Required) > 0 {
			sb.WriteString(fmt.Sprintf("schema = { type = \"object\", required = [%s] }\n", quoteAll(s.Required)))
		}
		if s.SkipWhen != nil {
			sb.WriteString(fmt.Sprintf("skipWhen = { step = %q, field = %q, equals = %s }\n",
				s.SkipWhen.Step, s.SkipWhen.Field, s.SkipWhen.Equals))
		}
	}

	return sb.String()
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
