package step

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// LifecycleEvent drives a status through its lifecycle.
type LifecycleEvent string

// Lifecycle events.
const (
	// EventValidate starts validation: idle, success or error become pending.
	EventValidate LifecycleEvent = "VALIDATE"
	// EventResolve ends a successful validation: pending becomes success.
	EventResolve LifecycleEvent = "RESOLVE"
	// EventReject ends a failed validation: pending becomes error.
	EventReject LifecycleEvent = "REJECT"
	// EventComplete marks a step done without validation.
	EventComplete LifecycleEvent = "COMPLETE"
	// EventFail marks a step failed without validation.
	EventFail LifecycleEvent = "FAIL"
	// EventReset returns a step to idle.
	EventReset LifecycleEvent = "RESET"
)

// lifecycleContext is the (empty) statekit context of the status machine.
type lifecycleContext struct{}

var lifecycleEvents = map[LifecycleEvent]statekit.Event{
	EventValidate: {Type: "VALIDATE"},
	EventResolve:  {Type: "RESOLVE"},
	EventReject:   {Type: "REJECT"},
	EventComplete: {Type: "COMPLETE"},
	EventFail:     {Type: "FAIL"},
	EventReset:    {Type: "RESET"},
}

// seedEvents move a fresh interpreter from idle to the status a transition starts from.
var seedEvents = map[Status]statekit.Event{
	StatusPending: {Type: "@pending"},
	StatusSuccess: {Type: "@success"},
	StatusError:   {Type: "@error"},
}

// Lifecycle holds the transition rules between statuses:
//
//	idle    --VALIDATE--> pending  --RESOLVE--> success
//	                               --REJECT---> error
//	success|error --VALIDATE--> pending
//	any --RESET--> idle, COMPLETE --> success, FAIL --> error
type Lifecycle struct {
	start func() *statekit.Interpreter[lifecycleContext]
}

// NewLifecycle builds the status machine.
func NewLifecycle() (*Lifecycle, error) {
	machine, err := statekit.NewMachine[lifecycleContext]("step-status").
		WithInitial("idle").
		WithContext(lifecycleContext{}).
		State("idle").
		On("VALIDATE").Target("pending").
		On("COMPLETE").Target("success").
		On("FAIL").Target("error").
		On("@pending").Target("pending").
		On("@success").Target("success").
		On("@error").Target("error").Done().
		State("pending").
		On("RESOLVE").Target("success").
		On("REJECT").Target("error").
		On("COMPLETE").Target("success").
		On("FAIL").Target("error").
		On("RESET").Target("idle").Done().
		State("success").
		On("VALIDATE").Target("pending").
		On("FAIL").Target("error").
		On("RESET").Target("idle").Done().
		State("error").
		On("VALIDATE").Target("pending").
		On("COMPLETE").Target("success").
		On("RESET").Target("idle").Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build status lifecycle: %w", err)
	}

	return &Lifecycle{
		start: func() *statekit.Interpreter[lifecycleContext] {
			return statekit.NewInterpreter(machine)
		},
	}, nil
}

// MustNewLifecycle is NewLifecycle that panics on error.
func MustNewLifecycle() *Lifecycle {
	l, err := NewLifecycle()
	if err != nil {
		panic(err)
	}
	return l
}

// Next returns the status reached from from on event. It reports false, with
// from unchanged, when the event is not allowed in that status.
func (l *Lifecycle) Next(from Status, event LifecycleEvent) (Status, bool) {
	ev, ok := lifecycleEvents[event]
	if !ok || !from.Valid() {
		return from, false
	}

	interp := l.start()
	interp.Start()
	defer interp.Stop()

	if seed, ok := seedEvents[from]; ok {
		interp.Send(seed)
	}
	interp.Send(ev)

	to := Status(interp.State().Value)
	if to == from {
		return from, false
	}
	return to, true
}

// Allowed reports whether event is accepted in status from.
func (l *Lifecycle) Allowed(from Status, event LifecycleEvent) bool {
	_, ok := l.Next(from, event)
	return ok
}
