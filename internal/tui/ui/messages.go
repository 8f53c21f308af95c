package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorMsg represents an error that occurred during processing.
type ErrorMsg struct {
	Err error
}

func (e ErrorMsg) Error() string {
	return e.Err.Error()
}

// StateChangedMsg reports that the stepper changed outside the model, for
// example through another binding sharing the session.
type StateChangedMsg struct {
	Revision uint64
}

// NewErrorMsg creates a new error message.
func NewErrorMsg(err error) tea.Msg {
	return ErrorMsg{Err: err}
}

// NewStateChangedMsg creates a new state change message.
func NewStateChangedMsg(revision uint64) tea.Msg {
	return StateChangedMsg{Revision: revision}
}
