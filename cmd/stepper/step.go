package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/validation"
)

var errValidationFailed = errors.New("metadata failed validation")

var setCmd = &cobra.Command{
	Use:   "set <step> <value>",
	Short: "Store metadata for a step",
	Long: `Set validates value against the step schema and stores it.

The value is parsed as JSON; anything that is not valid JSON is stored as
a plain string. The step becomes success when the value is accepted and
error otherwise.

Examples:
  stepper set cart '{"items": 2}'
  stepper set shipping '{"city": "Berlin"}'
  stepper set note "leave at the door"`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status <step> <status>",
	Short: "Override the status of a step (idle, pending, success, error)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetStatus,
}

var completeCmd = &cobra.Command{
	Use:   "complete [step]",
	Short: "Mark a step as done (default: the current step)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runComplete,
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(setStatusCmd)
	rootCmd.AddCommand(completeCmd)

	for _, c := range []*cobra.Command{setCmd, setStatusCmd, completeCmd} {
		c.ValidArgsFunction = completeStepIDs
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := validation.ValidateStepID(id); err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s *app.Session) error {
		result, err := s.SetMetadata(ctx, id, parseValue(args[1]))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			if err := printJSON(out, result); err != nil {
				return err
			}
		} else if result.Success {
			_, _ = fmt.Fprintf(out, "✓ %s saved\n", id)
		} else {
			for _, issue := range result.Error {
				_, _ = fmt.Fprintf(out, "✗ %s: %s\n", id, issue)
			}
		}

		if !result.Success {
			return errValidationFailed
		}
		return nil
	})
}

func runSetStatus(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := validation.ValidateStepID(id); err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s *app.Session) error {
		if err := s.SetStatus(ctx, id, args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", id, s.Stepper.Status(id))
		return nil
	})
}

func runComplete(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := validation.ValidateStepID(args[0]); err != nil {
			return err
		}
	}

	return withSession(cmd, func(ctx context.Context, s *app.Session) error {
		id := s.Stepper.Current().ID
		if len(args) == 1 {
			id = args[0]
		}

		changed, err := s.Complete(ctx, id)
		if err != nil {
			return err
		}
		if changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s completed\n", id)
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is already complete\n", id)
		}
		return nil
	})
}

// completeStepIDs offers the step ids of the definition for the first argument.
func completeStepIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	svc, err := openService(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = svc.Close() }()

	var ids []string
	for _, st := range svc.Flow().Definition.Steps.All() {
		ids = append(ids, st.ID+"\t"+st.Title)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
