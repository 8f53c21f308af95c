package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/stepper/internal/ports"
)

const snapshotExt = ".snapshot"

// File stores each key as one file in a directory. Writes go to a temporary
// file that is renamed into place, so readers never see a partial value.
type File struct {
	dir string
	mu  sync.RWMutex
}

// NewFile creates a File store rooted at dir. A leading ~/ is expanded.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("storage directory cannot be empty")
	}
	return &File{dir: ports.ExpandPath(dir)}, nil
}

// DefaultDir returns ~/.stepper/state.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stepper", "state"), nil
}

// Dir returns the storage directory.
func (f *File) Dir() string {
	return f.dir
}

// GetItem implements ports.Storage.
func (f *File) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return string(data), true, nil
}

// SetItem implements ports.Storage.
func (f *File) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}

// RemoveItem implements ports.Storage.
func (f *File) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys implements ports.KeyLister.
func (f *File) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list storage directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, snapshotExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// path maps a key to a file name that is safe on every platform.
func (f *File) path(key string) string {
	name := strings.ReplaceAll(url.PathEscape(key), ":", "%3A")
	return filepath.Join(f.dir, name+snapshotExt)
}

var (
	_ ports.Storage   = (*File)(nil)
	_ ports.KeyLister = (*File)(nil)
)
