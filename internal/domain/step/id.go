package step

import (
	"errors"
	"regexp"
	"strings"
)

// Errors for step ID validation.
var (
	ErrEmptyID   = errors.New("step ID cannot be empty")
	ErrInvalidID = errors.New("step ID format invalid: must start with a letter or digit and contain only letters, digits, '-', '_', '.', '/' or ':'")
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_./:-]*$`)

// ValidateID checks that id is usable as a step identifier.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if !idPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}
