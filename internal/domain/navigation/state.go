// Package navigation is the stepper state machine: an immutable State, the
// actions that change it, a pure Reduce function and the selectors that
// decide which transitions are allowed.
//
// Reduce never mutates its input and never panics on bad input. An action
// that cannot apply returns the input pointer unchanged, so callers detect
// "nothing happened" with a pointer comparison.
package navigation

import (
	"time"

	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

// Mode is the navigation policy.
type Mode string

const (
	// ModeFree allows any target whose dependencies are satisfied.
	ModeFree Mode = "free"
	// ModeLinear additionally requires forward moves to go one step at a
	// time, from a step with StatusSuccess.
	ModeLinear Mode = "linear"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFree || m == ModeLinear
}

// HistoryEntry records one visited position.
type HistoryEntry struct {
	Step      step.Step
	Index     int
	Timestamp time.Time
}

// State is the complete navigation state of one stepper.
//
// Invariants, after every Reduce: the key sets of Statuses and Metadata equal
// the registry's IDs; 0 <= CurrentIndex < registry length;
// 0 <= HistoryIndex < len(History).
type State struct {
	CurrentIndex int
	Statuses     step.Statuses
	Metadata     step.Metadata
	History      []HistoryEntry
	HistoryIndex int

	// Initialized is false only while an asynchronous initial-data loader is pending.
	Initialized bool

	// InitialMetadata is the metadata recorded at creation, restored by ResetMetadata.
	InitialMetadata step.Metadata
}

// Config carries the creation options and the policy used by Reduce.
type Config struct {
	// InitialStep is the ID of the starting step; unknown or empty means the first step.
	InitialStep string
	// InitialStatuses is completed with StatusIdle for missing steps.
	InitialStatuses step.Statuses
	// InitialMetadata is completed with nil for missing steps.
	InitialMetadata step.Metadata
	// HasInitialData marks the state as waiting for an Initialize action.
	HasInitialData bool
	// Mode defaults to ModeFree.
	Mode Mode
	// MaxHistory bounds the history length when positive.
	MaxHistory int
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c Config) mode() Mode {
	if c.Mode.Valid() {
		return c.Mode
	}
	return ModeFree
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Payload is the data an Initialize action seeds the state with.
type Payload struct {
	Step     string
	Metadata step.Metadata
	Statuses step.Statuses
}

// NewInitialState builds the starting state for r.
func NewInitialState(r *step.Registry, cfg Config) *State {
	index := r.Index(cfg.InitialStep)
	if index < 0 {
		index = 0
	}

	metadata := completeMetadata(r, cfg.InitialMetadata)
	return &State{
		CurrentIndex:    index,
		Statuses:        completeStatuses(r, cfg.InitialStatuses),
		Metadata:        metadata,
		History:         []HistoryEntry{newEntry(r, index, cfg)},
		HistoryIndex:    0,
		Initialized:     !cfg.HasInitialData,
		InitialMetadata: metadata.Clone(),
	}
}

// CurrentStep returns the step at CurrentIndex.
func (s *State) CurrentStep(r *step.Registry) step.Step {
	st, _ := r.ByIndex(s.CurrentIndex)
	return st
}

// UIStatusOf derives the UI status of the step at index.
func (s *State) UIStatusOf(index int) step.UIStatus {
	return step.UIStatusAt(index, s.CurrentIndex)
}

// clone returns a shallow copy of s with its own maps and history slice.
func (s *State) clone() *State {
	c := *s
	c.Statuses = s.Statuses.Clone()
	c.Metadata = s.Metadata.Clone()
	c.History = append([]HistoryEntry(nil), s.History...)
	return &c
}

func newEntry(r *step.Registry, index int, cfg Config) HistoryEntry {
	st, _ := r.ByIndex(index)
	return HistoryEntry{Step: st, Index: index, Timestamp: cfg.now()}
}

// completeStatuses returns a statuses map holding exactly the registry IDs,
// taking valid values from partial and StatusIdle otherwise.
func completeStatuses(r *step.Registry, partial step.Statuses) step.Statuses {
	out := make(step.Statuses, r.Len())
	for _, id := range r.IDs() {
		if s, ok := partial[id]; ok && s.Valid() {
			out[id] = s
			continue
		}
		out[id] = step.StatusIdle
	}
	return out
}

// completeMetadata returns a metadata map holding exactly the registry IDs,
// taking values from partial and nil otherwise.
func completeMetadata(r *step.Registry, partial step.Metadata) step.Metadata {
	out := make(step.Metadata, r.Len())
	for _, id := range r.IDs() {
		out[id] = partial[id]
	}
	return out
}
