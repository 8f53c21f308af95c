package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/tui/ui"
)

const progressWidth = 30

// stepperModel drives one session interactively.
type stepperModel struct {
	ctx     context.Context
	session *app.Session
	styles  ui.Styles
	keys    ui.KeyMap
	help    help.Model
	width   int
	height  int

	// cursor is the row selected for GoTo; it follows the current step after every action.
	cursor int

	message string
	err     error

	cancelled bool
	completed bool
	revision  uint64
}

func newStepperModel(ctx context.Context, session *app.Session) stepperModel {
	return stepperModel{
		ctx:      ctx,
		session:  session,
		styles:   ui.DefaultStyles(),
		keys:     ui.DefaultKeyMap(),
		help:     help.New(),
		width:    80,
		height:   24,
		cursor:   session.Stepper.CurrentIndex(),
		revision: session.Stepper.Revision(),
	}
}

func (m stepperModel) Init() tea.Cmd {
	return nil
}

func (m stepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.styles = m.styles.WithWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ui.StateChangedMsg:
		if msg.Revision > m.revision {
			m.revision = msg.Revision
			m.cursor = m.session.Stepper.CurrentIndex()
		}
		return m, nil

	case ui.ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m stepperModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelled = !m.completed
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case m.keys.IsUp(msg):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case m.keys.IsDown(msg):
		if m.cursor < len(s.Stepper.All())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if s.Stepper.IsLast() && s.Stepper.Status(s.Stepper.Current().ID).IsTerminal() {
			m.completed = true
			m.message = "All steps done."
			return m, tea.Quit
		}
		moved, err := s.Next(m.ctx)
		m.report(moved, err, "next")

	case key.Matches(msg, m.keys.Prev):
		moved, err := s.Prev(m.ctx)
		m.report(moved, err, "previous")

	case key.Matches(msg, m.keys.GoTo):
		target := s.Stepper.All()[m.cursor]
		moved, err := s.GoTo(m.ctx, target.ID)
		m.report(moved, err, target.Title)

	case key.Matches(msg, m.keys.Complete):
		current := s.Stepper.Current()
		changed, err := s.Complete(m.ctx, current.ID)
		switch {
		case err != nil:
			m.err = err
		case changed:
			m.message = fmt.Sprintf("Completed %s.", current.Title)
		default:
			m.message = fmt.Sprintf("%s is already complete.", current.Title)
		}

	case key.Matches(msg, m.keys.Undo):
		m.toggle(s.Undo(m.ctx), "Undone.", "Nothing to undo.")

	case key.Matches(msg, m.keys.Redo):
		m.toggle(s.Redo(m.ctx), "Redone.", "Nothing to redo.")

	case key.Matches(msg, m.keys.Reset):
		s.Reset(m.ctx)
		m.message = "Reset to the first step."
	}

	m.cursor = s.Stepper.CurrentIndex()
	m.revision = s.Stepper.Revision()
	return m, nil
}

func (m *stepperModel) report(moved bool, err error, target string) {
	switch {
	case err != nil:
		m.err = err
	case moved:
		m.message = fmt.Sprintf("Now at %s.", m.session.Stepper.Current().Title)
	default:
		m.message = fmt.Sprintf("Cannot move to %s yet.", target)
	}
}

func (m *stepperModel) toggle(ok bool, yes, no string) {
	if ok {
		m.message = yes
	} else {
		m.message = no
	}
}

func (m stepperModel) View() string {
	var b strings.Builder
	status := m.session.Status()

	b.WriteString(m.styles.Title.Render(status.Name) + "\n")
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("session %s • %s mode", status.Session, status.Mode)) + "\n")

	var rows strings.Builder
	for i, st := range status.Steps {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}

		label := st.Title
		if st.Icon != "" {
			label = st.Icon + " " + label
		}
		if st.Skipped {
			label += " (skipped)"
		}

		rows.WriteString(fmt.Sprintf("%s%s %s\n", cursor, m.styles.Row(st.UIStatus, st.Skipped).Render(label), m.styles.Badge(st.Status)))
	}
	b.WriteString(m.styles.Panel.Render(strings.TrimRight(rows.String(), "\n")))
	b.WriteString("\n")

	b.WriteString(m.progressBar(status.Index+1, status.Total) + "\n\n")

	if current := m.session.Stepper.Current(); current.Description != "" {
		b.WriteString(current.Description + "\n\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("✗ "+m.err.Error()) + "\n\n")
	case m.message != "":
		b.WriteString(m.styles.Success.Render(m.message) + "\n\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m stepperModel) progressBar(current, total int) string {
	if total == 0 {
		return ""
	}
	filled := current * progressWidth / total
	bar := m.styles.ProgressBar.Render(strings.Repeat("█", filled)) + m.styles.Help.Render(strings.Repeat("░", progressWidth-filled))
	return fmt.Sprintf("%s %s", bar, m.styles.Help.Render(fmt.Sprintf("Step %d/%d", current, total)))
}
