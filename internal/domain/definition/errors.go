package definition

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeNotFound           = "DEFINITION_NOT_FOUND"
	ErrCodeParse              = "DEFINITION_PARSE"
	ErrCodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	ErrCodeUnsupportedVersion = "UNSUPPORTED_VERSION"
	ErrCodeStepInvalid        = "STEP_INVALID"
	ErrCodeSchemaInvalid      = "SCHEMA_INVALID"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
)

// UserError represents a user-friendly error with actionable suggestions.
type UserError struct {
	Code       string // Error code for categorization (e.g., "STEP_INVALID")
	Message    string // User-friendly error message
	Context    string // File path or field path
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *UserError) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}

	return b.String()
}

// WithContext returns a copy of e with context set.
func (e *UserError) WithContext(ctx string) *UserError {
	c := *e
	c.Context = ctx
	return &c
}

// ErrorList accumulates every problem found in a document so they can be
// reported together.
type ErrorList struct {
	errors []*UserError
}

// NewErrorList creates an empty ErrorList.
func NewErrorList() *ErrorList {
	return &ErrorList{errors: make([]*UserError, 0)}
}

// Add adds an error to the list.
func (l *ErrorList) Add(err *UserError) {
	if err != nil {
		l.errors = append(l.errors, err)
	}
}

// Addf adds a validation failure for field.
func (l *ErrorList) Addf(field, suggestion, format string, args ...any) {
	l.Add(&UserError{
		Code:       ErrCodeValidationFailed,
		Message:    fmt.Sprintf(format, args...),
		Context:    field,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if there are any errors.
func (l *ErrorList) HasErrors() bool {
	return len(l.errors) > 0
}

// Len returns the number of errors.
func (l *ErrorList) Len() int {
	return len(l.errors)
}

// Errors returns the list of errors.
func (l *ErrorList) Errors() []*UserError {
	result := make([]*UserError, len(l.errors))
	copy(result, l.errors)
	return result
}

// Error implements the error interface for ErrorList.
func (l *ErrorList) Error() string {
	if len(l.errors) == 0 {
		return ""
	}
	if len(l.errors) == 1 {
		return l.errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:\n", len(l.errors))
	for i, err := range l.errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Format returns a detailed formatted output of all errors.
func (l *ErrorList) Format() string {
	if len(l.errors) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d error(s):\n", len(l.errors))
	for i, err := range l.errors {
		fmt.Fprintf(&b, "\n--- Error %d ---\n", i+1)
		b.WriteString(err.Format())
		b.WriteString("\n")
	}
	return b.String()
}

// AsError returns the ErrorList as an error, or nil if empty. A single error
// is returned unwrapped.
func (l *ErrorList) AsError() error {
	switch len(l.errors) {
	case 0:
		return nil
	case 1:
		return l.errors[0]
	default:
		return l
	}
}

// Unwrap exposes every error to errors.Is and errors.As.
func (l *ErrorList) Unwrap() []error {
	out := make([]error, len(l.errors))
	for i, err := range l.errors {
		out[i] = err
	}
	return out
}

// NewNotFoundError creates an error for a missing definition file.
func NewNotFoundError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("definition file not found: %s", path),
		Context:    path,
		Suggestion: "Check the --file path, or create a definition with at least one step.",
	}
}

// NewParseError creates an error for YAML or TOML syntax failures.
func NewParseError(path, format string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeParse,
		Message:    fmt.Sprintf("failed to parse %s definition", strings.ToUpper(format)),
		Context:    path,
		Suggestion: "Check the document syntax. Common issues: incorrect indentation, missing quotes, or a misspelled key.",
		Underlying: err,
	}
}

// NewUnsupportedFormatError creates an error for an unknown file extension.
func NewUnsupportedFormatError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeUnsupportedFormat,
		Message:    "unsupported definition format",
		Context:    path,
		Suggestion: "Use a .yaml, .yml or .toml file.",
	}
}

// NewUnsupportedVersionError creates an error for an apiVersion this build cannot read.
func NewUnsupportedVersionError(version string) *UserError {
	return &UserError{
		Code:       ErrCodeUnsupportedVersion,
		Message:    fmt.Sprintf("unsupported apiVersion %q", version),
		Context:    "apiVersion",
		Suggestion: fmt.Sprintf("Set apiVersion to %s.", SupportedAPIVersion),
	}
}

// NewStepError creates an error for an invalid step.
func NewStepError(field string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeStepInvalid,
		Message:    err.Error(),
		Context:    field,
		Suggestion: "Step ids start with a letter or digit and are unique; requires may only name other steps.",
		Underlying: err,
	}
}

// NewSchemaError creates an error for a schema that does not compile.
func NewSchemaError(field string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeSchemaInvalid,
		Message:    "step schema is not a valid JSON Schema",
		Context:    field,
		Suggestion: "Check the schema keywords, for example type: object and required: [field].",
		Underlying: err,
	}
}

// IsUserError checks if an error, or any error of an ErrorList, is a
// UserError with a specific code.
func IsUserError(err error, code string) bool {
	return errors.Is(err, &UserError{Code: code})
}

// GetUserError extracts a UserError from an error chain, if present.
func GetUserError(err error) *UserError {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return nil
}
