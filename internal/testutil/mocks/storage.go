// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/stepper/internal/ports"
)

// StorageCall records one call made to Storage.
type StorageCall struct {
	Op    string
	Key   string
	Value string
}

// Storage is a thread-safe test double for ports.Storage with injectable failures.
type Storage struct {
	mu        sync.RWMutex
	items     map[string]string
	getErr    error
	setErr    error
	removeErr error
	calls     []StorageCall
}

// NewStorage creates an empty Storage mock.
func NewStorage() *Storage {
	return &Storage{
		items: make(map[string]string),
		calls: make([]StorageCall, 0),
	}
}

// Put seeds a raw value without recording a call.
func (m *Storage) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

// FailGet makes every GetItem return err. A nil err clears the failure.
func (m *Storage) FailGet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// FailSet makes every SetItem return err. A nil err clears the failure.
func (m *Storage) FailSet(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// FailRemove makes every RemoveItem return err. A nil err clears the failure.
func (m *Storage) FailRemove(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr = err
}

// GetItem implements ports.Storage.
func (m *Storage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, StorageCall{Op: "get", Key: key})
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements ports.Storage.
func (m *Storage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, StorageCall{Op: "set", Key: key, Value: value})
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

// RemoveItem implements ports.Storage.
func (m *Storage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, StorageCall{Op: "remove", Key: key})
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.items, key)
	return nil
}

// Keys implements ports.KeyLister.
func (m *Storage) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Value returns the stored value for key.
func (m *Storage) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Calls returns every recorded call.
func (m *Storage) Calls() []StorageCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]StorageCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns how many calls of op were made.
func (m *Storage) CallCount(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.calls {
		if c.Op == op {
			count++
		}
	}
	return count
}

// Reset clears items, failures and recorded calls.
func (m *Storage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]string)
	m.getErr, m.setErr, m.removeErr = nil, nil, nil
	m.calls = make([]StorageCall, 0)
}

var (
	_ ports.Storage   = (*Storage)(nil)
	_ ports.KeyLister = (*Storage)(nil)
)
