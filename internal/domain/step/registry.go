package step

import (
	"errors"
	"fmt"
)

// Errors for registry construction and lookup.
var (
	ErrEmptyRegistry     = errors.New("registry must contain at least one step")
	ErrDuplicateStep     = errors.New("step with this ID already exists")
	ErrMissingDependency = errors.New("step requires nonexistent step")
	ErrStepNotFound      = errors.New("step not found")
)

// NotFoundError reports a lookup by an unknown step ID.
func NotFoundError(id string) error {
	return fmt.Errorf("%w: step with id %q not found", ErrStepNotFound, id)
}

// Registry is the immutable, ordered list of steps of one stepper
// definition. Order defines indices and the default traversal.
type Registry struct {
	steps []Step
	index map[string]int
}

// NewRegistry validates steps and builds a registry. IDs must be valid and
// unique, and every Requires entry must name a registered step.
func NewRegistry(steps ...Step) (*Registry, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		steps: make([]Step, len(steps)),
		index: make(map[string]int, len(steps)),
	}
	for i, s := range steps {
		if err := ValidateID(s.ID); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if _, exists := r.index[s.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStep, s.ID)
		}
		s.Requires = append([]string(nil), s.Requires...)
		r.steps[i] = s
		r.index[s.ID] = i
	}

	for _, s := range r.steps {
		for _, dep := range s.Requires {
			if _, ok := r.index[dep]; !ok {
				return nil, fmt.Errorf("%w: step %q requires %q", ErrMissingDependency, s.ID, dep)
			}
		}
	}

	return r, nil
}

// MustNewRegistry is NewRegistry for statically known steps; it panics on error.
func MustNewRegistry(steps ...Step) *Registry {
	r, err := NewRegistry(steps...)
	if err != nil {
		panic("invalid step registry: " + err.Error())
	}
	return r
}

// Len returns the number of steps.
func (r *Registry) Len() int {
	return len(r.steps)
}

// All returns the steps in order. The returned slice is a copy.
func (r *Registry) All() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// IDs returns the step IDs in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.steps))
	for i, s := range r.steps {
		ids[i] = s.ID
	}
	return ids
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Get returns the step with the given ID.
func (r *Registry) Get(id string) (Step, bool) {
	i, ok := r.index[id]
	if !ok {
		return Step{}, false
	}
	return r.steps[i], true
}

// Index returns the position of id, or -1 when it is not registered.
func (r *Registry) Index(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// ByIndex returns the step at i.
func (r *Registry) ByIndex(i int) (Step, bool) {
	if i < 0 || i >= len(r.steps) {
		return Step{}, false
	}
	return r.steps[i], true
}

// First returns the first step.
func (r *Registry) First() Step {
	return r.steps[0]
}

// Last returns the last step.
func (r *Registry) Last() Step {
	return r.steps[len(r.steps)-1]
}

// Next returns the step after id. It reports false for the last step or an unknown id.
func (r *Registry) Next(id string) (Step, bool) {
	i := r.Index(id)
	if i < 0 {
		return Step{}, false
	}
	return r.ByIndex(i + 1)
}

// Prev returns the step before id. It reports false for the first step or an unknown id.
func (r *Registry) Prev(id string) (Step, bool) {
	i := r.Index(id)
	if i < 0 {
		return Step{}, false
	}
	return r.ByIndex(i - 1)
}

// Neighbors holds the steps adjacent to a given step. Missing neighbours are zero Steps.
type Neighbors struct {
	Prev Step
	Next Step
}

// Neighbors returns the steps before and after id.
func (r *Registry) Neighbors(id string) Neighbors {
	prev, _ := r.Prev(id)
	next, _ := r.Next(id)
	return Neighbors{Prev: prev, Next: next}
}
