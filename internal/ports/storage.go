package ports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrStorageClosed is returned by storage backends used after Close.
var ErrStorageClosed = errors.New("storage is closed")

// Storage is the minimal key/value capability the persistence codec writes
// snapshots to. It can be backed by memory, files, a database or a remote
// store; every call may block and therefore takes a context.
type Storage interface {
	// GetItem returns the stored value and true, or "" and false when the key is absent.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// KeyLister is implemented by storage backends that can enumerate their keys.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
