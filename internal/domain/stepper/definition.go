// Package stepper provides the stateful handle over the navigation state
// machine: a Definition is built once from an ordered list of steps, and
// each session gets its own Stepper from it.
package stepper

import (
	"fmt"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// Definition is an immutable stepper blueprint.
type Definition struct {
	Steps     *step.Registry
	lifecycle *step.Lifecycle
}

// Define validates steps and builds a Definition.
func Define(steps ...step.Step) (*Definition, error) {
	registry, err := step.NewRegistry(steps...)
	if err != nil {
		return nil, err
	}
	lifecycle, err := step.NewLifecycle()
	if err != nil {
		return nil, fmt.Errorf("define stepper: %w", err)
	}
	return &Definition{Steps: registry, lifecycle: lifecycle}, nil
}

// MustDefine is Define that panics on error. Intended for package-level definitions.
func MustDefine(steps ...step.Step) *Definition {
	d, err := Define(steps...)
	if err != nil {
		panic(err)
	}
	return d
}

// Utils exposes the registry queries (Get, Index, ByIndex, First, Last, Next, Prev, Neighbors).
func (d *Definition) Utils() *step.Registry {
	return d.Steps
}

// Lifecycle returns the status transition rules shared by every Stepper of d.
func (d *Definition) Lifecycle() *step.Lifecycle {
	return d.lifecycle
}
