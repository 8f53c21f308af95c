// Package ui provides shared styles, key bindings, and messages for TUI components.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	ColorPrimary    = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	ColorSecondary  = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#cba6f7"} // Mauve
	ColorSuccess    = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	ColorWarning    = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	ColorError      = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	ColorMuted      = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
	ColorText       = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"} // Text
	ColorBackground = lipgloss.AdaptiveColor{Light: "#eff1f5", Dark: "#1e1e2e"} // Base
)

// Styles contains reusable lipgloss styles for the TUI.
type Styles struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Status line
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Step rows by UI status
	StepActive   lipgloss.Style
	StepDone     lipgloss.Style
	StepInactive lipgloss.Style
	StepSkipped  lipgloss.Style
	Cursor       lipgloss.Style

	// Status badges
	BadgeIdle    lipgloss.Style
	BadgePending lipgloss.Style
	BadgeSuccess lipgloss.Style
	BadgeError   lipgloss.Style

	Panel       lipgloss.Style
	ProgressBar lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default TUI styles.
func DefaultStyles() Styles {
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Subtitle: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			MarginBottom(1),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Error: lipgloss.NewStyle().
			Foreground(ColorError),

		StepActive: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		StepDone: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		StepInactive: lipgloss.NewStyle().
			Foreground(ColorText),

		StepSkipped: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true),

		Cursor: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true),

		BadgeIdle: badge.
			Foreground(ColorMuted),

		BadgePending: badge.
			Foreground(ColorBackground).
			Background(ColorWarning),

		BadgeSuccess: badge.
			Foreground(ColorBackground).
			Background(ColorSuccess),

		BadgeError: badge.
			Foreground(ColorBackground).
			Background(ColorError),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),

		ProgressBar: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Help: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// WithWidth returns styles adapted for a specific terminal width.
func (s Styles) WithWidth(width int) Styles {
	if width > 4 {
		s.Panel = s.Panel.Width(width - 4)
	}
	s.App = s.App.Width(width)
	return s
}

// Row returns the style of a step row.
func (s Styles) Row(ui step.UIStatus, skipped bool) lipgloss.Style {
	switch {
	case skipped:
		return s.StepSkipped
	case ui == step.UIActive:
		return s.StepActive
	case ui == step.UISuccess:
		return s.StepDone
	default:
		return s.StepInactive
	}
}

// Badge renders a step status label.
func (s Styles) Badge(status step.Status) string {
	switch status {
	case step.StatusPending:
		return s.BadgePending.Render(string(status))
	case step.StatusSuccess:
		return s.BadgeSuccess.Render(string(status))
	case step.StatusError:
		return s.BadgeError.Render(string(status))
	default:
		return s.BadgeIdle.Render(string(step.StatusIdle))
	}
}
