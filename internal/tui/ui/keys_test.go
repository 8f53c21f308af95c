package ui_test

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/tui/ui"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDefaultKeyMap(t *testing.T) {
	t.Parallel()

	km := ui.DefaultKeyMap()

	for name, b := range map[string]key.Binding{
		"next":     km.Next,
		"prev":     km.Prev,
		"goto":     km.GoTo,
		"complete": km.Complete,
		"undo":     km.Undo,
		"redo":     km.Redo,
		"reset":    km.Reset,
		"quit":     km.Quit,
	} {
		assert.NotEmpty(t, b.Keys(), name)
		assert.NotEmpty(t, b.Help().Desc, name)
	}
}

func TestKeyMap_Matches(t *testing.T) {
	t.Parallel()

	km := ui.DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"arrow right is next", tea.KeyMsg{Type: tea.KeyRight}, km.Next},
		{"n is next", runes("n"), km.Next},
		{"arrow left is prev", tea.KeyMsg{Type: tea.KeyLeft}, km.Prev},
		{"enter is goto", tea.KeyMsg{Type: tea.KeyEnter}, km.GoTo},
		{"c is complete", runes("c"), km.Complete},
		{"u is undo", runes("u"), km.Undo},
		{"r is redo", runes("r"), km.Redo},
		{"shift r is reset", runes("R"), km.Reset},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}

	assert.False(t, key.Matches(runes("r"), km.Reset), "reset needs shift")
}

func TestKeyMap_IsUpDown(t *testing.T) {
	t.Parallel()

	km := ui.DefaultKeyMap()

	assert.True(t, km.IsUp(tea.KeyMsg{Type: tea.KeyUp}))
	assert.True(t, km.IsUp(runes("k")))
	assert.False(t, km.IsUp(runes("j")))
	assert.True(t, km.IsDown(tea.KeyMsg{Type: tea.KeyDown}))
	assert.True(t, km.IsDown(runes("j")))
	assert.False(t, km.IsDown(runes("x")))
}

func TestKeyMap_Help(t *testing.T) {
	t.Parallel()

	km := ui.DefaultKeyMap()
	assert.Len(t, km.ShortHelp(), 5)

	var total int
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	assert.Equal(t, 11, total)
}

func TestStyles_BadgeAndRow(t *testing.T) {
	t.Parallel()

	s := ui.DefaultStyles()

	assert.Contains(t, s.Badge(step.StatusSuccess), "success")
	assert.Contains(t, s.Badge(step.StatusError), "error")
	assert.Contains(t, s.Badge(step.StatusPending), "pending")
	assert.Contains(t, s.Badge(""), "idle")

	assert.Equal(t, s.StepSkipped.Render("x"), s.Row(step.UIActive, true).Render("x"))
	assert.Equal(t, s.StepActive.Render("x"), s.Row(step.UIActive, false).Render("x"))
	assert.Equal(t, s.StepDone.Render("x"), s.Row(step.UISuccess, false).Render("x"))
	assert.Equal(t, s.StepInactive.Render("x"), s.Row(step.UIInactive, false).Render("x"))

	wide := s.WithWidth(100)
	assert.Equal(t, 96, wide.Panel.GetWidth())
}

func TestMessages(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	msg, ok := ui.NewErrorMsg(boom).(ui.ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, "boom", msg.Error())

	changed, ok := ui.NewStateChangedMsg(7).(ui.StateChangedMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(7), changed.Revision)
}
