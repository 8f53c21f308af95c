package stepper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
	"github.com/felixgeelhaar/stepper/internal/testutil"
)

func TestBeforeHooks_Gate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := checkout(t).New(stepper.WithInitialStatuses(step.Statuses{"cart": step.StatusSuccess}))

	var from, to string
	allow := false
	gate := func(_ context.Context, f, n step.Step) (bool, error) {
		from, to = f.ID, n.ID
		return allow, nil
	}

	moved, err := s.BeforeNext(ctx, gate)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "cart", from)
	assert.Equal(t, "shipping", to)
	testutil.AssertAt(t, s, "cart")

	allow = true
	moved, err = s.BeforeNext(ctx, gate)
	require.NoError(t, err)
	assert.True(t, moved)
	testutil.AssertAt(t, s, "shipping")

	moved, err = s.BeforeGoTo(ctx, "review", gate)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "review", to)

	moved, err = s.BeforePrev(ctx, gate)
	require.NoError(t, err)
	assert.True(t, moved)
	testutil.AssertAt(t, s, "payment")
}

func TestBeforeHooks_ErrorVetoes(t *testing.T) {
	t.Parallel()

	s := checkout(t).New()
	boom := errors.New("form invalid")

	moved, err := s.BeforeNext(context.Background(), func(context.Context, step.Step, step.Step) (bool, error) {
		return true, boom
	})
	assert.False(t, moved)
	assert.ErrorIs(t, err, boom)
	testutil.AssertAt(t, s, "cart")
}

func TestBeforeHooks_NotCalledWhenMoveImpossible(t *testing.T) {
	t.Parallel()

	s := checkout(t).New()
	called := false
	hook := func(context.Context, step.Step, step.Step) (bool, error) {
		called = true
		return true, nil
	}

	moved, err := s.BeforePrev(context.Background(), hook)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = s.BeforeGoTo(context.Background(), "ghost", hook)
	assert.ErrorIs(t, err, step.ErrStepNotFound)
	assert.False(t, called)
}

func TestBeforeHooks_SlowHookHonoursContext(t *testing.T) {
	t.Parallel()

	s := checkout(t).New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	moved, err := s.BeforeNext(ctx, func(ctx context.Context, _, _ step.Step) (bool, error) {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return true, nil
	})
	assert.False(t, moved)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	testutil.AssertAt(t, s, "cart")
}

func TestBeforeHooks_AsyncHookAllows(t *testing.T) {
	t.Parallel()

	s := checkout(t).New()
	moved, err := s.BeforeNext(context.Background(), func(context.Context, step.Step, step.Step) (bool, error) {
		time.Sleep(5 * time.Millisecond)
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, moved)
}

func TestAfterHooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := checkout(t).New(stepper.WithInitialStatuses(step.Statuses{"cart": step.StatusSuccess}))

	var seen []string
	record := func(_ context.Context, from, to step.Step) error {
		seen = append(seen, from.ID+"->"+to.ID)
		return nil
	}

	moved, err := s.AfterNext(ctx, record)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = s.AfterGoTo(ctx, "review", record)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = s.AfterPrev(ctx, record)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = s.AfterGoTo(ctx, "payment", record)
	require.NoError(t, err)
	assert.False(t, moved, "already there")

	assert.Equal(t, []string{"cart->shipping", "shipping->review", "review->payment"}, seen)

	boom := errors.New("analytics down")
	moved, err = s.AfterPrev(ctx, func(context.Context, step.Step, step.Step) error { return boom })
	assert.True(t, moved, "the move is applied before the hook runs")
	assert.ErrorIs(t, err, boom)
	testutil.AssertAt(t, s, "shipping")
}

func TestBeforeHooks_GateRecheckedAfterHook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := checkout(t).New(stepper.WithInitialStatuses(step.Statuses{"cart": step.StatusSuccess}))

	moved, err := s.BeforeGoTo(ctx, "payment", func(ctx context.Context, _, _ step.Step) (bool, error) {
		s.SetStatus(ctx, "cart", step.StatusError)
		return true, nil
	})
	require.NoError(t, err)
	assert.False(t, moved, "dependency broke while the hook ran")
	testutil.AssertAt(t, s, "cart")
}
