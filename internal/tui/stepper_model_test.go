package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepper/internal/adapters/storage"
	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/domain/definition"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/testutil"
	"github.com/felixgeelhaar/stepper/internal/tui/ui"
)

func newTestModel(t *testing.T, fixture string) stepperModel {
	t.Helper()

	flow, err := definition.Load(testutil.WriteFixture(t, fixture))
	require.NoError(t, err)
	svc := app.NewWithStorage(flow, storage.NewMemory(), nil)
	sess, err := svc.Open(context.Background(), "tui")
	require.NoError(t, err)
	return newStepperModel(context.Background(), sess)
}

func press(t *testing.T, m stepperModel, msg tea.KeyMsg) (stepperModel, tea.Cmd) {
	t.Helper()

	updated, cmd := m.Update(msg)
	next, ok := updated.(stepperModel)
	require.True(t, ok)
	return next, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewStepperModel(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.yaml")

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 24, m.height)
	assert.Equal(t, 0, m.cursor)
	assert.False(t, m.cancelled)
	assert.False(t, m.completed)
	assert.Nil(t, m.Init())
}

func TestStepperModel_WindowSize(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.yaml")
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(stepperModel)

	assert.Nil(t, cmd)
	assert.Equal(t, 120, got.width)
	assert.Equal(t, 40, got.height)
	assert.Equal(t, 120, got.help.Width)
}

func TestStepperModel_LinearNavigation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.yaml")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "cart", m.session.Stepper.Current().ID)
	assert.Contains(t, m.message, "Cannot move")

	m, _ = press(t, m, keyRunes("c"))
	assert.Equal(t, step.StatusSuccess, m.session.Stepper.Status("cart"))
	assert.Equal(t, "Completed Cart.", m.message)

	m, _ = press(t, m, keyRunes("c"))
	assert.Equal(t, "Cart is already complete.", m.message)

	m, _ = press(t, m, keyRunes("n"))
	assert.Equal(t, "gift-wrap", m.session.Stepper.Current().ID)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, "Now at Gift Wrap.", m.message)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "cart", m.session.Stepper.Current().ID)

	m, _ = press(t, m, keyRunes("u"))
	assert.Equal(t, "gift-wrap", m.session.Stepper.Current().ID)
	assert.Equal(t, "Undone.", m.message)

	m, _ = press(t, m, keyRunes("r"))
	assert.Equal(t, "cart", m.session.Stepper.Current().ID)

	m, _ = press(t, m, keyRunes("r"))
	assert.Equal(t, "Nothing to redo.", m.message)

	m, _ = press(t, m, keyRunes("R"))
	assert.Equal(t, step.StatusIdle, m.session.Stepper.Status("cart"))
}

func TestStepperModel_CursorAndGoTo(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.toml")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor, "cursor stops at the top")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, keyRunes("j"))
	m, _ = press(t, m, keyRunes("j"))
	assert.Equal(t, 2, m.cursor, "cursor stops at the bottom")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "cart", m.session.Stepper.Current().ID, "payment still needs the cart")
	assert.Equal(t, "Cannot move to Review yet.", m.message)
	assert.Equal(t, 0, m.cursor, "cursor follows the current step")

	m, _ = press(t, m, keyRunes("c"))
	m, _ = press(t, m, keyRunes("j"))
	m, _ = press(t, m, keyRunes("j"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "review", m.session.Stepper.Current().ID, "free mode jumps ahead")

	m, _ = press(t, m, keyRunes("k"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "payment", m.session.Stepper.Current().ID)
	assert.Equal(t, 1, m.cursor)
}

func TestStepperModel_FinishOnLastStep(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.toml")
	_, err := m.session.Complete(context.Background(), "cart")
	require.NoError(t, err)
	_, err = m.session.GoTo(context.Background(), "review")
	require.NoError(t, err)

	m, _ = press(t, m, keyRunes("c"))
	m, cmd := press(t, m, keyRunes("n"))

	assert.True(t, m.completed)
	assert.NotNil(t, cmd)

	m, _ = press(t, m, keyRunes("q"))
	assert.False(t, m.cancelled, "quitting after completion is not a cancel")
}

func TestStepperModel_Quit(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.yaml")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, m.cancelled)
	assert.NotNil(t, cmd)
}

func TestStepperModel_ExternalChanges(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.toml")
	_, err := m.session.Complete(context.Background(), "cart")
	require.NoError(t, err)
	_, err = m.session.GoTo(context.Background(), "payment")
	require.NoError(t, err)

	updated, _ := m.Update(ui.NewStateChangedMsg(0))
	m = updated.(stepperModel)
	assert.Equal(t, 0, m.cursor, "stale revisions are ignored")

	updated, _ = m.Update(ui.NewStateChangedMsg(m.session.Stepper.Revision()))
	m = updated.(stepperModel)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(ui.NewErrorMsg(errors.New("storage offline")))
	m = updated.(stepperModel)
	assert.Contains(t, m.View(), "storage offline")
}

func TestStepperModel_View(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, "checkout.yaml")
	m, _ = press(t, m, keyRunes("?"))
	assert.True(t, m.help.ShowAll)

	view := m.View()
	assert.Contains(t, view, "checkout")
	assert.Contains(t, view, "session tui")
	assert.Contains(t, view, "linear mode")
	assert.Contains(t, view, "Shipping address")
	assert.Contains(t, view, "Step 1/5")
	assert.Contains(t, view, "Review the items in your cart")
	assert.Contains(t, view, "undo")
}
