// Package persist saves and restores stepper snapshots through a pluggable
// ports.Storage. Persistence is best effort: failures are logged and reported
// as values, never returned as errors that would stop the stepper.
package persist

import (
	"time"

	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// PersistedState is the serialisable projection of a navigation state.
// History is deliberately absent: a reload restores position and data, never undo history.
type PersistedState struct {
	StepID    string        `json:"stepId" yaml:"stepId" toml:"stepId"`
	Timestamp int64         `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Metadata  step.Metadata `json:"metadata" yaml:"metadata" toml:"metadata"`
	Statuses  step.Statuses `json:"statuses" yaml:"statuses" toml:"statuses"`
}

// NewPersistedState builds a snapshot stamped with now (unix milliseconds).
func NewPersistedState(stepID string, metadata step.Metadata, statuses step.Statuses, now time.Time) PersistedState {
	return PersistedState{
		StepID:    stepID,
		Timestamp: now.UnixMilli(),
		Metadata:  metadata.Clone(),
		Statuses:  statuses.Clone(),
	}
}

// FromState projects a live state onto a snapshot.
func FromState(r *step.Registry, s *navigation.State, now time.Time) PersistedState {
	return NewPersistedState(s.CurrentStep(r).ID, s.Metadata, s.Statuses, now)
}

// ToInitialState maps a snapshot to the payload of a navigation.Initialize action.
func ToInitialState(p PersistedState) navigation.Payload {
	return navigation.Payload{
		Step:     p.StepID,
		Metadata: p.Metadata.Clone(),
		Statuses: p.Statuses.Clone(),
	}
}

// SavedAt returns the snapshot timestamp as a time.
func (p PersistedState) SavedAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// valid is the minimal structural check applied on load.
func (p PersistedState) valid() bool {
	return p.StepID != "" && p.Metadata != nil && p.Statuses != nil
}
