package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/app"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return move(cmd, "the next step", (*app.Session).Next)
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Move to the previous step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return move(cmd, "the previous step", (*app.Session).Prev)
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <step>",
	Short: "Jump to a step",
	Long: `Goto jumps to the given step.

In free mode any step whose dependencies are satisfied can be reached.
In linear mode only the adjacent steps can.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		return move(cmd, target, func(s *app.Session, ctx context.Context) (bool, error) {
			return s.GoTo(ctx, target)
		})
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(gotoCmd)
}

// move applies a navigation and prints where the session ended up.
func move(cmd *cobra.Command, target string, fn func(*app.Session, context.Context) (bool, error)) error {
	return withSession(cmd, func(ctx context.Context, s *app.Session) error {
		moved, err := fn(s, ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(out, struct {
				Moved  bool       `json:"moved"`
				Status app.Status `json:"status"`
			}{moved, s.Status()})
		}

		current := s.Stepper.Current()
		if moved {
			_, _ = fmt.Fprintf(out, "Now at %s (%s)\n", current.Title, current.ID)
		} else {
			_, _ = fmt.Fprintf(out, "Cannot move to %s; still at %s (%s)\n", target, current.Title, current.ID)
		}
		return nil
	})
}
