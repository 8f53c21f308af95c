// Package mcp exposes stepper sessions as Model Context Protocol tools.
package mcp

import (
	"fmt"

	"github.com/felixgeelhaar/stepper/internal/validation"
)

// ValidateSessionInput validates SessionInput fields.
func ValidateSessionInput(in *SessionInput) error {
	return validateSession(in.Session)
}

// ValidateStepInput validates StepInput fields.
func ValidateStepInput(in *StepInput) error {
	if err := validateSession(in.Session); err != nil {
		return err
	}
	return validateStep(in.Step)
}

// ValidateCompleteInput validates CompleteInput fields. The step is optional.
func ValidateCompleteInput(in *CompleteInput) error {
	if err := validateSession(in.Session); err != nil {
		return err
	}
	if in.Step == "" {
		return nil
	}
	return validateStep(in.Step)
}

// ValidateSetMetadataInput validates SetMetadataInput fields.
func ValidateSetMetadataInput(in *SetMetadataInput) error {
	if err := validateSession(in.Session); err != nil {
		return err
	}
	return validateStep(in.Step)
}

// ValidateSetStatusInput validates SetStatusInput fields.
func ValidateSetStatusInput(in *SetStatusInput) error {
	if err := validateSession(in.Session); err != nil {
		return err
	}
	if err := validateStep(in.Step); err != nil {
		return err
	}
	if in.Status == "" {
		return fmt.Errorf("invalid status: %w", validation.ErrEmptyInput)
	}
	return nil
}

// ValidateClearInput validates ClearInput fields.
func ValidateClearInput(in *ClearInput) error {
	return validateSession(in.Session)
}

func validateSession(id string) error {
	if err := validation.ValidateSessionID(id); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	return nil
}

func validateStep(id string) error {
	if err := validation.ValidateStepID(id); err != nil {
		return fmt.Errorf("invalid step: %w", err)
	}
	return nil
}
