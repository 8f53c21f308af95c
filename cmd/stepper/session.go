package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/app"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Return the session to its initial step, statuses and metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(ctx context.Context, s *app.Session) error {
			s.Reset(ctx)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reset %s to %s\n", s.ID, s.Stepper.Current().ID)
			return nil
		})
	},
}

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored snapshot of the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !clearYes {
			return errors.New("refusing to delete the session without --yes")
		}
		return withSession(cmd, func(ctx context.Context, s *app.Session) error {
			s.Clear(ctx)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", s.Key())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "confirm deletion")
}
