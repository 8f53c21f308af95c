package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/stepper/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNopLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	assert.Same(t, logger, logger.With(ports.F("step", "cart")))
	assert.Equal(t, ports.LevelInfo, logger.Level())

	logger.SetLevel(ports.LevelDebug)
	assert.Equal(t, ports.LevelDebug, logger.Level())
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &NopLogger{}, OrNop(nil))

	console := NewConsoleLogger()
	assert.Same(t, console, OrNop(console))
}

func newTestConsole(buf *bytes.Buffer, opts ...ConsoleLoggerOption) *ConsoleLogger {
	base := []ConsoleLoggerOption{
		WithOutput(buf),
		WithLevel(ports.LevelDebug),
		WithTimestamp(false),
	}
	return NewConsoleLogger(append(base, opts...)...)
}

func TestConsoleLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf)

	logger.Info(context.Background(), "step changed", ports.F("from", "cart"), ports.F("to", 1))

	assert.Equal(t, "[INFO] step changed from=cart to=1\n", buf.String())
}

func TestConsoleLogger_TextWithTimestamp(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithTimestamp(true), WithLevelLabel(false))
	logger.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 15, 0, time.Local) }

	logger.Warn(context.Background(), "slow hook")

	assert.Equal(t, "09:30:15 slow hook\n", buf.String())
}

func TestConsoleLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithJSONFormat(true))

	logger.Error(context.Background(), "save failed", ports.F("key", "checkout"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "save failed", entry["msg"])
	assert.Equal(t, "checkout", entry["key"])
	assert.NotContains(t, entry, "time")
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithLevel(ports.LevelWarn))
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "warn")
	assert.Contains(t, buf.String(), "warn")
}

func TestConsoleLogger_WithSharesSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestConsole(&buf, WithLevelLabel(false))
	derived := logger.With(ports.F("scope", "outer"))

	logger.Info(context.Background(), "plain")
	derived.Info(context.Background(), "scoped", ports.F("step", "cart"))

	assert.Equal(t, "plain\nscoped scope=outer step=cart\n", buf.String())

	logger.SetLevel(ports.LevelError)
	assert.Equal(t, ports.LevelError, derived.Level())
}
