package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/testutil"
)

func openSession(t *testing.T) (*app.Service, *app.Session) {
	t.Helper()

	svc := newService(t, app.BackendMemory)
	sess, err := svc.Open(context.Background(), "s1")
	require.NoError(t, err)
	return svc, sess
}

func TestSession_Status(t *testing.T) {
	t.Parallel()

	_, sess := openSession(t)
	status := sess.Status()

	assert.Equal(t, "checkout", status.Name)
	assert.Equal(t, "s1", status.Session)
	assert.Equal(t, navigation.ModeLinear, status.Mode)
	assert.Equal(t, "cart", status.Current)
	assert.Equal(t, 0, status.Index)
	assert.Equal(t, 5, status.Total)
	assert.True(t, status.IsFirst)
	assert.False(t, status.CanNext, "linear mode waits for cart to succeed")
	assert.False(t, status.CanUndo)

	require.Len(t, status.Steps, 5)
	assert.Equal(t, step.UIActive, status.Steps[0].UIStatus)
	assert.Equal(t, step.UIInactive, status.Steps[1].UIStatus)
	assert.Equal(t, "Gift Wrap", status.Steps[1].Title)
	assert.Equal(t, []string{"cart"}, status.Steps[1].Requires)
	assert.False(t, status.Steps[1].Reachable)
}

func TestSession_SetMetadataValidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, sess := openSession(t)

	result, err := sess.SetMetadata(ctx, "cart", map[string]any{"items": 0})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Nil(t, sess.Stepper.Metadata("cart"))
	testutil.AssertStatus(t, sess.Stepper, "cart", step.StatusError)

	result, err = sess.SetMetadata(ctx, "cart", map[string]any{"items": 1, "express": true})
	require.NoError(t, err)
	assert.True(t, result.Success)

	status := sess.Status()
	assert.True(t, status.CanNext)
	assert.True(t, status.Steps[1].Skipped, "express orders skip gift wrapping")

	moved, err := sess.Next(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	testutil.AssertAt(t, sess.Stepper, "shipping")

	_, err = sess.SetMetadata(ctx, "ghost", 1)
	assert.ErrorIs(t, err, step.ErrStepNotFound)
}

func TestSession_SetStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, sess := openSession(t)

	require.NoError(t, sess.SetStatus(ctx, "cart", "SUCCESS"))
	testutil.AssertStatus(t, sess.Stepper, "cart", step.StatusSuccess)

	assert.ErrorIs(t, sess.SetStatus(ctx, "cart", "done"), app.ErrInvalidStatus)
	assert.ErrorIs(t, sess.SetStatus(ctx, "ghost", "idle"), step.ErrStepNotFound)
}

func TestSession_GoToPrevUndoRedoReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, sess := openSession(t)

	moved, err := sess.GoTo(ctx, "shipping")
	require.NoError(t, err)
	assert.False(t, moved, "linear mode cannot jump over gift-wrap")

	for _, id := range []string{"cart", "gift-wrap"} {
		_, err = sess.Complete(ctx, id)
		require.NoError(t, err)
		moved, err = sess.Next(ctx)
		require.NoError(t, err)
		require.True(t, moved)
	}
	testutil.AssertAt(t, sess.Stepper, "shipping")

	moved, err = sess.Prev(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	testutil.AssertAt(t, sess.Stepper, "gift-wrap")

	assert.True(t, sess.Undo(ctx))
	testutil.AssertAt(t, sess.Stepper, "shipping")
	assert.True(t, sess.Redo(ctx))
	testutil.AssertAt(t, sess.Stepper, "gift-wrap")

	assert.True(t, sess.Reset(ctx))
	testutil.AssertAt(t, sess.Stepper, "cart")
	testutil.AssertStatus(t, sess.Stepper, "cart", step.StatusIdle)
}

func TestSession_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, sess := openSession(t)

	_, err := sess.Complete(ctx, "cart")
	require.NoError(t, err)
	_, ok, err := svc.Storage().GetItem(ctx, sess.Key())
	require.NoError(t, err)
	require.True(t, ok)

	sess.Clear(ctx)
	_, ok, err = svc.Storage().GetItem(ctx, sess.Key())
	require.NoError(t, err)
	assert.False(t, ok)
	testutil.AssertStatus(t, sess.Stepper, "cart", step.StatusSuccess, "clearing storage leaves the live stepper alone")

	reopened, err := svc.Open(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, reopened.Restored)
	testutil.AssertStatus(t, reopened.Stepper, "cart", step.StatusIdle)
}
