package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/tui"
)

var runAltScreen bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through the flow interactively",
	Long: `Run opens an interactive terminal UI for the session.

Keys:
  ←/→  previous / next step     ↑/↓  select a step
  enter  jump to the selection    c    complete the current step
  u/r  undo / redo               R    reset
  ?    toggle help                q    quit

Progress is saved as you go, so "stepper run" resumes where you left off.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(ctx context.Context, s *app.Session) error {
			result, err := tui.RunStepper(ctx, s, tui.StepperOptions{AltScreen: runAltScreen})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.Completed:
				_, _ = fmt.Fprintf(out, "✓ %s finished\n", s.Flow().Name())
			case result.Cancelled:
				_, _ = fmt.Fprintf(out, "Paused at %s; run again to resume session %s\n", result.FinalStep, s.ID)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runAltScreen, "alt-screen", false, "use the alternate screen buffer")
}
