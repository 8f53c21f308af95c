package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/felixgeelhaar/stepper/internal/ports"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   ports.Level
	Message string
	Fields  []ports.Field
}

// Field returns the value of the named field and whether it was present.
func (e LogEntry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Logger records every entry regardless of level.
type Logger struct {
	store  *logStore
	fields []ports.Field
	level  ports.Level
}

type logStore struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// NewLogger creates a recording Logger.
func NewLogger() *Logger {
	return &Logger{store: &logStore{}, level: ports.LevelDebug}
}

func (l *Logger) record(level ports.Level, msg string, fields []ports.Field) {
	all := make([]ports.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.entries = append(l.store.entries, LogEntry{Level: level, Message: msg, Fields: all})
}

// Debug implements ports.Logger.
func (l *Logger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelDebug, msg, fields)
}

// Info implements ports.Logger.
func (l *Logger) Info(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelInfo, msg, fields)
}

// Warn implements ports.Logger.
func (l *Logger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelWarn, msg, fields)
}

// Error implements ports.Logger.
func (l *Logger) Error(_ context.Context, msg string, fields ...ports.Field) {
	l.record(ports.LevelError, msg, fields)
}

// With implements ports.Logger. Derived loggers record into the same store.
func (l *Logger) With(fields ...ports.Field) ports.Logger {
	merged := make([]ports.Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{store: l.store, fields: merged, level: l.level}
}

// Level implements ports.Logger.
func (l *Logger) Level() ports.Level {
	return l.level
}

// SetLevel implements ports.Logger.
func (l *Logger) SetLevel(level ports.Level) {
	l.level = level
}

// Entries returns a copy of every recorded entry.
func (l *Logger) Entries() []LogEntry {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	result := make([]LogEntry, len(l.store.entries))
	copy(result, l.store.entries)
	return result
}

// EntriesAt returns the entries recorded at level.
func (l *Logger) EntriesAt(level ports.Level) []LogEntry {
	var result []LogEntry
	for _, e := range l.Entries() {
		if e.Level == level {
			result = append(result, e)
		}
	}
	return result
}

// Contains reports whether any entry message contains substr.
func (l *Logger) Contains(substr string) bool {
	for _, e := range l.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

var _ ports.Logger = (*Logger)(nil)
