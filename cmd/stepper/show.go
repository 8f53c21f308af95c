package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/app"
)

var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"status"},
	Short:   "Show the current step and the status of every step",
	Long: `Show prints the session position, the status of every step and
which steps are skipped.

Examples:
  stepper show
  stepper show --session alice
  stepper show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(_ context.Context, s *app.Session) error {
			return printStatus(cmd.OutOrStdout(), s.Status())
		})
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions of the definition",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a session with a fresh random id",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(newCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	sessions, err := svc.Sessions(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		if sessions == nil {
			sessions = []string{}
		}
		return printJSON(out, sessions)
	}
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, "No stored sessions.")
		return nil
	}
	for _, id := range sessions {
		_, _ = fmt.Fprintln(out, id)
	}
	return nil
}

func runNew(cmd *cobra.Command, _ []string) error {
	sessionID = app.NewSessionID()
	return withSession(cmd, func(ctx context.Context, s *app.Session) error {
		// Store the initial snapshot so the session shows up in "sessions".
		s.Stepper.Save(ctx)
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), map[string]string{"session": s.ID})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.ID)
		return nil
	})
}
