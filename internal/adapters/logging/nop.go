// Package logging implements ports.Logger: a ConsoleLogger for text or JSON
// output and a NopLogger used whenever no logger is configured.
package logging

import (
	"context"

	"github.com/felixgeelhaar/stepper/internal/ports"
)

// NopLogger discards every entry.
type NopLogger struct {
	level ports.Level
}

// NewNopLogger creates a no-op logger.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: ports.LevelInfo}
}

// OrNop returns logger, or a NopLogger when logger is nil.
func OrNop(logger ports.Logger) ports.Logger {
	if logger == nil {
		return NewNopLogger()
	}
	return logger
}

// Debug does nothing.
func (l *NopLogger) Debug(_ context.Context, _ string, _ ...ports.Field) {}

// Info does nothing.
func (l *NopLogger) Info(_ context.Context, _ string, _ ...ports.Field) {}

// Warn does nothing.
func (l *NopLogger) Warn(_ context.Context, _ string, _ ...ports.Field) {}

// Error does nothing.
func (l *NopLogger) Error(_ context.Context, _ string, _ ...ports.Field) {}

// With returns l.
func (l *NopLogger) With(_ ...ports.Field) ports.Logger {
	return l
}

// Level returns the stored level.
func (l *NopLogger) Level() ports.Level {
	return l.level
}

// SetLevel stores level.
func (l *NopLogger) SetLevel(level ports.Level) {
	l.level = level
}

var _ ports.Logger = (*NopLogger)(nil)
