package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stepper/internal/domain/definition"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

var errInvalidDefinition = errors.New("definition is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a definition file",
	Long: `Validate parses and compiles a definition without touching any session.

Every problem is reported at once: unknown keys, duplicate step ids,
missing dependencies, invalid schemas and persistence settings.

Examples:
  stepper validate
  stepper validate flows/checkout.toml
  stepper validate --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type validationOutput struct {
	Valid  bool     `json:"valid"`
	Name   string   `json:"name,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	Steps  int      `json:"steps,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := defFile
	if len(args) == 1 {
		path = args[0]
	}

	flow, err := definition.Load(ports.ExpandPath(path))
	out := cmd.OutOrStdout()

	if jsonOut {
		output := validationOutput{Valid: err == nil}
		if err != nil {
			output.Errors = errorMessages(err)
		} else {
			output.Name = flow.Name()
			output.Mode = string(flow.Mode)
			output.Steps = flow.Definition.Steps.Len()
		}
		if perr := printJSON(out, output); perr != nil {
			return perr
		}
		if err != nil {
			return errInvalidDefinition
		}
		return nil
	}

	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "✓ %s is valid: %d steps, %s mode\n", flow.Name(), flow.Definition.Steps.Len(), flow.Mode)
	return nil
}

func errorMessages(err error) []string {
	var list *definition.ErrorList
	if errors.As(err, &list) {
		msgs := make([]string, 0, list.Len())
		for _, e := range list.Errors() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
