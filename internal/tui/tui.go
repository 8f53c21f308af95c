// Package tui provides the interactive terminal front end for a stepper session.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/tui/ui"
)

// StepperOptions configures the stepper TUI.
type StepperOptions struct {
	AltScreen bool
}

// StepperResult holds the outcome of an interactive run.
type StepperResult struct {
	FinalStep string
	Completed bool
	Cancelled bool
}

// RunStepper runs the interactive stepper for session until the user quits.
func RunStepper(ctx context.Context, session *app.Session, opts StepperOptions) (*StepperResult, error) {
	model := newStepperModel(ctx, session)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, progOpts...)

	// Listeners run inside Update for changes the model makes itself, so the
	// send must not block the event loop.
	cancel := session.Stepper.Subscribe(func(*navigation.State) {
		revision := session.Stepper.Revision()
		go p.Send(ui.NewStateChangedMsg(revision))
	})
	defer cancel()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("stepper tui failed: %w", err)
	}

	m, ok := finalModel.(stepperModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	return &StepperResult{
		FinalStep: session.Stepper.Current().ID,
		Completed: m.completed,
		Cancelled: m.cancelled,
	}, nil
}
