package stepper

import (
	"context"
	"time"

	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/persist"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

// InitialDataLoader produces the state a Stepper is seeded with by Initialize.
type InitialDataLoader func(ctx context.Context) (navigation.Payload, error)

type options struct {
	mode            navigation.Mode
	initialStep     string
	initialStatuses step.Statuses
	initialMetadata step.Metadata
	loader          InitialDataLoader
	persist         *persist.Manager
	autoSave        *bool
	logger          ports.Logger
	maxHistory      int
	now             func() time.Time
}

// Option configures a Stepper.
type Option func(*options)

// WithMode selects free or linear navigation. Defaults to free.
func WithMode(mode navigation.Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// WithInitialStep starts at id instead of the first step. Unknown ids are ignored.
func WithInitialStep(id string) Option {
	return func(o *options) {
		o.initialStep = id
	}
}

// WithInitialStatuses seeds statuses. Missing steps start idle.
func WithInitialStatuses(statuses step.Statuses) Option {
	return func(o *options) {
		o.initialStatuses = statuses.Clone()
	}
}

// WithInitialMetadata seeds metadata. It is also what ResetMetadata(keepInitial) restores.
func WithInitialMetadata(metadata step.Metadata) Option {
	return func(o *options) {
		o.initialMetadata = metadata.Clone()
	}
}

// WithInitialData defers seeding to loader, run by Initialize. Until then the
// Stepper reports Initialized() == false.
func WithInitialData(loader InitialDataLoader) Option {
	return func(o *options) {
		o.loader = loader
	}
}

// WithPersistence restores from and, unless WithAutoSave(false) is given,
// saves every change to m.
func WithPersistence(m *persist.Manager) Option {
	return func(o *options) {
		o.persist = m
	}
}

// WithAutoSave toggles saving after every change.
func WithAutoSave(enabled bool) Option {
	return func(o *options) {
		o.autoSave = &enabled
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxHistory bounds the navigation history. Zero means unbounded.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		o.maxHistory = n
	}
}

// WithClock replaces time.Now for history and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
