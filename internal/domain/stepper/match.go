package stepper

import "github.com/felixgeelhaar/stepper/internal/domain/step"

// When returns then(current) if the current step is id, otherwise
// otherwise(current). A nil otherwise yields the zero value.
func When[T any](s *Stepper, id string, then, otherwise func(step.Step) T) T {
	current := s.Current()
	if current.ID == id {
		return then(current)
	}
	if otherwise == nil {
		var zero T
		return zero
	}
	return otherwise(current)
}

// Switch calls the case registered for the current step. It reports false
// when there is none.
func Switch[T any](s *Stepper, cases map[string]func(step.Step) T) (T, bool) {
	return Match(s, s.Current().ID, cases)
}

// Match calls the case registered for id with the step of that id. It
// reports false when id is not a step or has no case.
func Match[T any](s *Stepper, id string, cases map[string]func(step.Step) T) (T, bool) {
	var zero T
	st, ok := s.Get(id)
	if !ok {
		return zero, false
	}
	fn, ok := cases[id]
	if !ok || fn == nil {
		return zero, false
	}
	return fn(st), true
}
