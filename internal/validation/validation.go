// Package validation checks identifiers and paths that arrive from outside the
// process, such as CLI flags and MCP tool input, before they reach storage.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// Common validation errors.
var (
	ErrEmptyInput       = errors.New("input cannot be empty")
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrInvalidStepID    = errors.New("invalid step id")
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrInvalidPath      = errors.New("invalid path")
	ErrCommandInjection = errors.New("potential command injection detected")
)

const maxSessionIDLength = 128

var (
	// sessionIDPattern admits slugs and UUIDs.
	sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\"}
)

// ValidateSessionID validates a session id. Empty is allowed and selects the
// default session.
func ValidateSessionID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) > maxSessionIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSessionID, maxSessionIDLength)
	}
	if containsShellMeta(id) {
		return fmt.Errorf("%w: %q", ErrCommandInjection, id)
	}
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q must contain only alphanumeric characters, hyphens, underscores, and dots", ErrInvalidSessionID, id)
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrPathTraversal, id)
	}
	return nil
}

// ValidateStepID validates a step id with the registry rules.
func ValidateStepID(id string) error {
	if id == "" {
		return ErrEmptyInput
	}
	if err := step.ValidateID(id); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidStepID, id, err)
	}
	return nil
}

// ValidatePath validates a file path and rejects traversal sequences.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// containsShellMeta checks if a string contains shell metacharacters.
func containsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	normalized := filepath.Clean(path)

	for _, seg := range strings.Split(normalized, string(filepath.Separator)) {
		if seg == ".." {
			return true
		}
	}

	// URL-encoded ".."
	return strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E")
}
