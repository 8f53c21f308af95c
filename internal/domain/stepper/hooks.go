package stepper

import (
	"context"

	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

// Hook runs before a transition. Returning false or an error cancels it.
type Hook func(ctx context.Context, from, to step.Step) (bool, error)

// AfterHook runs after a transition has been applied.
type AfterHook func(ctx context.Context, from, to step.Step) error

// BeforeNext moves like Next once fn allows it. A nil fn always allows.
func (s *Stepper) BeforeNext(ctx context.Context, fn Hook) (bool, error) {
	return s.move(ctx, "next", s.stepTarget(navigation.Forward), fn, nil)
}

// AfterNext moves like Next and then calls fn if the step changed.
func (s *Stepper) AfterNext(ctx context.Context, fn AfterHook) (bool, error) {
	return s.move(ctx, "next", s.stepTarget(navigation.Forward), nil, fn)
}

// BeforePrev moves like Prev once fn allows it.
func (s *Stepper) BeforePrev(ctx context.Context, fn Hook) (bool, error) {
	return s.move(ctx, "prev", s.stepTarget(navigation.Backward), fn, nil)
}

// AfterPrev moves like Prev and then calls fn if the step changed.
func (s *Stepper) AfterPrev(ctx context.Context, fn AfterHook) (bool, error) {
	return s.move(ctx, "prev", s.stepTarget(navigation.Backward), nil, fn)
}

// BeforeGoTo moves like GoTo once fn allows it.
func (s *Stepper) BeforeGoTo(ctx context.Context, id string, fn Hook) (bool, error) {
	return s.move(ctx, "goto", s.goToTarget(id), fn, nil)
}

// AfterGoTo moves like GoTo and then calls fn if the step changed.
func (s *Stepper) AfterGoTo(ctx context.Context, id string, fn AfterHook) (bool, error) {
	return s.move(ctx, "goto", s.goToTarget(id), nil, fn)
}

func (s *Stepper) stepTarget(direction int) func(*navigation.State) (int, bool, error) {
	return func(state *navigation.State) (int, bool, error) {
		index, ok := s.target(state, direction)
		return index, ok, nil
	}
}

func (s *Stepper) goToTarget(id string) func(*navigation.State) (int, bool, error) {
	return func(state *navigation.State) (int, bool, error) {
		index := s.def.Steps.Index(id)
		if index < 0 {
			return -1, false, step.NotFoundError(id)
		}
		if index == state.CurrentIndex {
			return index, false, nil
		}
		return index, navigation.CanNavigate(s.def.Steps, state, index, s.cfg.Mode), nil
	}
}

// move resolves a target from the current state, consults before, applies
// the GoTo and then calls after. The state may have changed while before
// ran; the reducer then decides whether the move still applies.
func (s *Stepper) move(
	ctx context.Context,
	name string,
	resolve func(*navigation.State) (int, bool, error),
	before Hook,
	after AfterHook,
) (bool, error) {
	state := s.State()
	index, ok, err := resolve(state)
	if err != nil {
		return false, err
	}
	if !ok {
		s.logger.Debug(ctx, "transition not allowed", ports.F("move", name), ports.F("target", index))
		return false, nil
	}

	from := state.CurrentStep(s.def.Steps)
	to, _ := s.def.Steps.ByIndex(index)

	if before != nil {
		allowed, err := runHook(ctx, func(ctx context.Context) (bool, error) {
			return before(ctx, from, to)
		})
		if err != nil {
			return false, err
		}
		if !allowed {
			s.logger.Debug(ctx, "transition vetoed by hook", ports.F("move", name), ports.F("from", from.ID), ports.F("to", to.ID))
			return false, nil
		}
	}

	// Free-mode gating is enforced here; the reducer only gates linear mode.
	if !navigation.CanNavigate(s.def.Steps, s.State(), index, s.cfg.Mode) {
		return false, nil
	}
	if !s.dispatch(ctx, navigation.GoTo{Index: index}) {
		return false, nil
	}

	if after != nil {
		_, err := runHook(ctx, func(ctx context.Context) (bool, error) {
			return true, after(ctx, from, to)
		})
		if err != nil {
			return true, err
		}
	}
	return true, nil
}

type hookResult struct {
	ok  bool
	err error
}

// runHook calls fn and waits for it or for ctx, whichever comes first.
func runHook(ctx context.Context, fn func(context.Context) (bool, error)) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	done := make(chan hookResult, 1)
	go func() {
		ok, err := fn(ctx)
		done <- hookResult{ok: ok, err: err}
	}()

	select {
	case r := <-done:
		return r.ok, r.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
