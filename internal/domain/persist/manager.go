package persist

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/stepper/internal/adapters/logging"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

// Errors returned by NewManager.
var (
	ErrEmptyKey   = errors.New("persistence key cannot be empty")
	ErrNilStorage = errors.New("persistence storage is required")
)

// Reason explains why Load did not return a snapshot.
type Reason string

// Load failure reasons.
const (
	ReasonNotFound Reason = "not_found"
	ReasonExpired  Reason = "expired"
	ReasonInvalid  Reason = "invalid"
	ReasonError    Reason = "error"
)

// LoadResult is the outcome of Load. State is set only when Success is true;
// Reason only when it is false.
type LoadResult struct {
	Success bool
	State   PersistedState
	Reason  Reason
}

// Config configures a Manager.
type Config struct {
	Key     string
	Storage ports.Storage

	// TTL expires snapshots older than this when positive.
	TTL time.Duration

	// Codec is used when Serialize/Deserialize are not set. Defaults to JSONCodec.
	Codec Codec

	// Serialize and Deserialize override the codec.
	Serialize   func(PersistedState) (string, error)
	Deserialize func(string) (PersistedState, error)

	// Partialize selects what is written. Defaults to the identity.
	Partialize func(PersistedState) PersistedState

	Logger ports.Logger
	Now    func() time.Time
}

// Manager saves, loads and clears one snapshot under one key.
type Manager struct {
	key         string
	storage     ports.Storage
	ttl         time.Duration
	serialize   func(PersistedState) (string, error)
	deserialize func(string) (PersistedState, error)
	partialize  func(PersistedState) PersistedState
	logger      ports.Logger
	now         func() time.Time
}

// NewManager validates cfg and fills in defaults.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Key == "" {
		return nil, ErrEmptyKey
	}
	if cfg.Storage == nil {
		return nil, ErrNilStorage
	}

	codec := cfg.Codec
	if codec == nil {
		codec = JSONCodec{}
	}

	m := &Manager{
		key:         cfg.Key,
		storage:     cfg.Storage,
		ttl:         cfg.TTL,
		serialize:   cfg.Serialize,
		deserialize: cfg.Deserialize,
		partialize:  cfg.Partialize,
		logger:      logging.OrNop(cfg.Logger).With(ports.F("persist_key", cfg.Key)),
		now:         cfg.Now,
	}
	if m.serialize == nil {
		m.serialize = func(p PersistedState) (string, error) {
			data, err := codec.Marshal(p)
			return string(data), err
		}
	}
	if m.deserialize == nil {
		m.deserialize = func(s string) (PersistedState, error) {
			var p PersistedState
			err := codec.Unmarshal([]byte(s), &p)
			return p, err
		}
	}
	if m.partialize == nil {
		m.partialize = func(p PersistedState) PersistedState { return p }
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

// Key returns the storage key.
func (m *Manager) Key() string {
	return m.key
}

// Now returns the manager's clock reading, used to stamp snapshots.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Save writes state. Failures are logged as warnings and otherwise ignored.
func (m *Manager) Save(ctx context.Context, state PersistedState) {
	data, err := m.serialize(m.partialize(state))
	if err != nil {
		m.logger.Warn(ctx, "failed to serialize stepper state", ports.Err(err))
		return
	}
	if err := m.storage.SetItem(ctx, m.key, data); err != nil {
		m.logger.Warn(ctx, "failed to save stepper state", ports.Err(err))
		return
	}
	m.logger.Debug(ctx, "saved stepper state", ports.F("step", state.StepID))
}

// Load reads the snapshot.
func (m *Manager) Load(ctx context.Context) LoadResult {
	state, reason := m.read(ctx)
	if reason != "" {
		return LoadResult{Reason: reason}
	}

	if m.ttl > 0 && m.now().UnixMilli()-state.Timestamp > m.ttl.Milliseconds() {
		m.logger.Debug(ctx, "stepper state expired", ports.F("saved_at", state.SavedAt()))
		return LoadResult{Reason: ReasonExpired}
	}
	return LoadResult{Success: true, State: state}
}

// Has reports whether a structurally valid snapshot is stored. Expiry is not checked.
func (m *Manager) Has(ctx context.Context) bool {
	_, reason := m.read(ctx)
	return reason == ""
}

// Clear removes the snapshot. Failures are logged as warnings and otherwise ignored.
func (m *Manager) Clear(ctx context.Context) {
	if err := m.storage.RemoveItem(ctx, m.key); err != nil {
		m.logger.Warn(ctx, "failed to clear stepper state", ports.Err(err))
	}
}

// read fetches and decodes the snapshot; a non-empty reason means it is unusable.
func (m *Manager) read(ctx context.Context) (PersistedState, Reason) {
	raw, ok, err := m.storage.GetItem(ctx, m.key)
	if err != nil {
		m.logger.Warn(ctx, "failed to load stepper state", ports.Err(err))
		return PersistedState{}, ReasonError
	}
	if !ok {
		return PersistedState{}, ReasonNotFound
	}

	state, err := m.deserialize(raw)
	if err != nil {
		m.logger.Warn(ctx, "stored stepper state is malformed", ports.Err(err))
		return PersistedState{}, ReasonInvalid
	}
	if !state.valid() {
		m.logger.Warn(ctx, "stored stepper state is missing required fields")
		return PersistedState{}, ReasonInvalid
	}
	return state, ""
}
