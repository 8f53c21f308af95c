package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/adapters/logging"
	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/domain/definition"
	"github.com/felixgeelhaar/stepper/internal/ports"
	"github.com/felixgeelhaar/stepper/internal/validation"
)

const defaultDefinition = "stepper.yaml"

var (
	// Global flags
	defFile   string
	sessionID string
	storeName string
	storePath string
	verbose   bool
	jsonOut   bool
)

var rootCmd = &cobra.Command{
	Use:   "stepper",
	Short: "Drive multi-step flows from the command line",
	Long: `Stepper runs multi-step flows described in a YAML or TOML definition.

Each session keeps its current step, per-step status and metadata in a
storage backend, so a flow can be resumed from the CLI, the interactive
TUI, or an AI agent over MCP.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&defFile, "file", "f", defaultDefinition, "definition file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "session id (default: default)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", string(app.BackendFile), "storage backend (memory, file, sqlite)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "state directory or database file (default: ~/.stepper)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the CLI logger. Debug output is enabled by --verbose.
func newLogger(w io.Writer) ports.Logger {
	level := ports.LevelWarn
	if verbose {
		level = ports.LevelDebug
	}
	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
	)
}

// openService loads the definition and opens the configured storage.
func openService(cmd *cobra.Command) (*app.Service, error) {
	if err := validation.ValidatePath(defFile); err != nil {
		return nil, fmt.Errorf("invalid --file: %w", err)
	}
	backend, err := app.ParseBackend(storeName)
	if err != nil {
		return nil, err
	}

	return app.New(app.Options{
		DefinitionPath: ports.ExpandPath(defFile),
		Backend:        backend,
		StorePath:      storePath,
		Logger:         newLogger(cmd.ErrOrStderr()),
	})
}

// withSession opens the session selected by --session and runs fn with it.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *app.Session) error) error {
	if err := validation.ValidateSessionID(sessionID); err != nil {
		return fmt.Errorf("invalid --session: %w", err)
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := svc.Open(ctx, sessionID)
	if err != nil {
		return err
	}
	return fn(ctx, s)
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var list *definition.ErrorList
	if errors.As(err, &list) {
		return list.Format()
	}

	var userErr *definition.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("file", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	_ = rootCmd.RegisterFlagCompletionFunc("store", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"file\tOne JSON/YAML/TOML file per session",
			"sqlite\tSingle SQLite database",
			"memory\tNothing survives the process",
		}, cobra.ShellCompDirectiveNoFileComp
	})
}
