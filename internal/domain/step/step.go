// Package step defines steps, the registry that orders them, per-step
// statuses and the status lifecycle.
package step

import (
	"context"

	"github.com/felixgeelhaar/stepper/internal/domain/schema"
)

// Metadata holds the per-step payload, keyed by step ID. Values are JSON-like
// (nil, bool, float64, string, []any, map[string]any) and opaque to the core.
type Metadata map[string]any

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SkipFunc decides from the current metadata whether a step is bypassed.
type SkipFunc func(metadata Metadata) bool

// Step is one stage of a stepper. Steps are values and are never modified
// after they are registered.
type Step struct {
	ID          string
	Title       string
	Description string
	Icon        string

	// Requires lists step IDs that must have StatusSuccess before this step is reachable.
	Requires []string

	// Skip, when set, is evaluated against the metadata on every scan.
	Skip SkipFunc

	// Schema, when set, gates the metadata accepted for this step.
	Schema schema.Schema

	// Data carries arbitrary caller-defined fields.
	Data map[string]any
}

// IsZero reports whether s is the zero Step.
func (s Step) IsZero() bool {
	return s.ID == ""
}

// ValidateMetadata validates value against the step's schema. Steps without
// a schema accept every value.
func ValidateMetadata(ctx context.Context, s Step, value any) schema.ValidationResult {
	return schema.Run(ctx, s.Schema, value)
}
