// Package schema defines the validation protocol used to gate step metadata.
//
// A Schema validates a value and reports either the accepted value or a list
// of issues. Validation may complete immediately or later; both cases are
// represented by an Outcome, and Outcome.Await resolves them uniformly so a
// caller never needs to know which kind of schema it holds. The protocol is
// deliberately small so that any validation library can be adapted to it.
package schema

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoResult is returned when a pending validation finishes without producing a result.
var ErrNoResult = errors.New("validation finished without a result")

// Issue describes one reason a value was rejected.
type Issue struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	path := ""
	for _, p := range i.Path {
		path += "/" + p
	}
	return fmt.Sprintf("%s: %s", path, i.Message)
}

// Result is what a schema reports: the accepted value, or the issues found.
type Result struct {
	Value  any
	Issues []Issue
}

// OK reports whether the result carries no issues.
func (r Result) OK() bool {
	return len(r.Issues) == 0
}

// Outcome is either a result that is already known or one still being computed.
type Outcome struct {
	result  Result
	pending <-chan Result
}

// Ready wraps a result that is already known.
func Ready(r Result) Outcome {
	return Outcome{result: r}
}

// Pending wraps a result that will be delivered on ch.
func Pending(ch <-chan Result) Outcome {
	return Outcome{pending: ch}
}

// IsPending reports whether the outcome still has to be awaited.
func (o Outcome) IsPending() bool {
	return o.pending != nil
}

// Await returns the result, blocking for pending outcomes until the result
// arrives or ctx is done.
func (o Outcome) Await(ctx context.Context) (Result, error) {
	if o.pending == nil {
		return o.result, nil
	}
	select {
	case r, ok := <-o.pending:
		if !ok {
			return Result{}, ErrNoResult
		}
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Schema validates a value.
type Schema interface {
	Validate(ctx context.Context, value any) Outcome
}

// Func adapts a synchronous validation function.
type Func func(value any) Result

// Validate implements Schema.
func (f Func) Validate(_ context.Context, value any) Outcome {
	return Ready(f(value))
}

// AsyncFunc adapts a validation function that may block, for example one
// that calls a remote service. It runs on its own goroutine.
type AsyncFunc func(ctx context.Context, value any) Result

// Validate implements Schema.
func (f AsyncFunc) Validate(ctx context.Context, value any) Outcome {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- f(ctx, value)
	}()
	return Pending(ch)
}

// ValidationResult is the normalised outcome of validating step metadata.
type ValidationResult struct {
	Success bool    `json:"success"`
	Data    any     `json:"data,omitempty"`
	Error   []Issue `json:"error,omitempty"`
}

// Run validates value against s and normalises the result. A nil schema
// accepts every value. A validation that cannot complete, because ctx ended
// or the schema produced nothing, is reported as a failure with one issue.
func Run(ctx context.Context, s Schema, value any) ValidationResult {
	if s == nil {
		return ValidationResult{Success: true, Data: value}
	}

	r, err := s.Validate(ctx, value).Await(ctx)
	if err != nil {
		return ValidationResult{Error: []Issue{{Message: err.Error()}}}
	}
	if !r.OK() {
		return ValidationResult{Error: r.Issues}
	}
	return ValidationResult{Success: true, Data: r.Value}
}
