// Package app wires a definition file, a storage backend and the stepper
// handle into sessions used by the CLI, TUI and MCP bindings.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/stepper/internal/adapters/logging"
	"github.com/felixgeelhaar/stepper/internal/adapters/storage"
	"github.com/felixgeelhaar/stepper/internal/domain/definition"
	"github.com/felixgeelhaar/stepper/internal/domain/stepper"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

// Backend names a storage implementation.
type Backend string

// Supported storage backends.
const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ErrUnknownBackend is returned for a backend name that is not supported.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ParseBackend maps a flag value to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(name)); b {
	case BackendMemory, BackendFile, BackendSQLite:
		return b, nil
	case "":
		return BackendFile, nil
	default:
		return "", fmt.Errorf("%w %q (supported: memory, file, sqlite)", ErrUnknownBackend, name)
	}
}

// Options configures a Service.
type Options struct {
	// DefinitionPath is the YAML or TOML definition file.
	DefinitionPath string
	// Backend defaults to BackendFile.
	Backend Backend
	// StorePath is the state directory (file) or database path (sqlite).
	// Defaults live under ~/.stepper.
	StorePath string
	Logger    ports.Logger
}

// Service opens sessions of one definition on one storage backend.
type Service struct {
	flow    *definition.Flow
	storage ports.Storage
	closer  io.Closer
	logger  ports.Logger
}

// New loads the definition and opens the storage backend described by opts.
func New(opts Options) (*Service, error) {
	flow, err := definition.Load(opts.DefinitionPath)
	if err != nil {
		return nil, err
	}

	store, closer, err := OpenStorage(opts.Backend, opts.StorePath)
	if err != nil {
		return nil, err
	}

	svc := NewWithStorage(flow, store, opts.Logger)
	svc.closer = closer
	return svc, nil
}

// NewWithStorage builds a Service from an already compiled flow and storage.
func NewWithStorage(flow *definition.Flow, store ports.Storage, logger ports.Logger) *Service {
	logger = logging.OrNop(logger)
	return &Service{
		flow:    flow,
		storage: store,
		logger:  logger.With(ports.F("definition", flow.Name())),
	}
}

// OpenStorage opens backend at path. The returned closer is nil for
// backends that hold no resources.
func OpenStorage(backend Backend, path string) (ports.Storage, io.Closer, error) {
	switch backend {
	case BackendMemory:
		return storage.NewMemory(), nil, nil
	case BackendFile, "":
		if path == "" {
			dir, err := storage.DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			path = dir
		}
		store, err := storage.NewFile(path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case BackendSQLite:
		if path == "" {
			dir, err := storage.DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			path = filepath.Join(filepath.Dir(dir), "stepper.db")
		}
		store, err := storage.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
	}
}

// Flow returns the compiled definition.
func (s *Service) Flow() *definition.Flow {
	return s.flow
}

// Storage returns the storage backend.
func (s *Service) Storage() ports.Storage {
	return s.storage
}

// Close releases the storage backend.
func (s *Service) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Open creates the stepper for sessionID and restores its snapshot, if any.
// An empty sessionID selects "default".
func (s *Service) Open(ctx context.Context, sessionID string, opts ...stepper.Option) (*Session, error) {
	if sessionID == "" {
		sessionID = DefaultSession
	}
	logger := s.logger.With(ports.F("session", sessionID))

	manager, err := s.flow.Persistence(s.storage, sessionID, logger)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", sessionID, err)
	}

	options := append(s.flow.Options(),
		stepper.WithPersistence(manager),
		stepper.WithLogger(logger),
	)
	options = append(options, opts...)

	restored := manager.Load(ctx).Success
	st := s.flow.Definition.New(options...)
	if err := st.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("open session %s: %w", sessionID, err)
	}

	logger.Debug(ctx, "session opened", ports.F("restored", restored), ports.F("step", st.Current().ID))

	return &Session{
		ID:       sessionID,
		Stepper:  st,
		flow:     s.flow,
		persist:  manager,
		Restored: restored,
	}, nil
}

// Sessions lists the sessions stored for this definition. Backends that
// cannot enumerate keys return an empty list.
func (s *Service) Sessions(ctx context.Context) ([]string, error) {
	lister, ok := s.storage.(ports.KeyLister)
	if !ok {
		return nil, nil
	}
	prefix := s.flow.StorageKey("")
	keys, err := lister.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]string, 0, len(keys))
	for _, key := range keys {
		sessions = append(sessions, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(sessions)
	return sessions, nil
}
