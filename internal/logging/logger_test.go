package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestNewLogger_JSONWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "info", Format: "json", Output: &buf}).WithRunID("run-1")

	logger.Info("generated", slog.Int("tables", 3))
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "generated", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.EqualValues(t, 3, entry["tables"])
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "debug", Format: "text", Output: &buf})

	logger.WithFields(slog.String("table", "Tasks")).Debug("assembled")

	assert.Contains(t, buf.String(), "msg=assembled")
	assert.Contains(t, buf.String(), "table=Tasks")
}

func TestMultiHandler_WritesToAll(t *testing.T) {
	var first, second bytes.Buffer
	handler := newMultiHandler(
		slog.NewTextHandler(&first, nil),
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(handler).With(slog.String("k", "v"))

	logger.Info("info line")
	logger.Warn("warn line")

	assert.Contains(t, first.String(), "info line")
	assert.Contains(t, first.String(), "warn line")
	assert.NotContains(t, second.String(), "info line")
	assert.Contains(t, second.String(), "warn line")
	assert.Contains(t, second.String(), "k=v")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRunID(ctx))
	assert.NotNil(t, FromContext(ctx).Logger)

	logger := NewLogger(Config{Output: &bytes.Buffer{}})
	ctx = WithLogger(WithRunIDContext(ctx, "abc"), logger)
	assert.Equal(t, "abc", GetRunID(ctx))
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextOr(t *testing.T) {
	fallback := NewLogger(Config{Output: &bytes.Buffer{}})
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))

	logger := NewLogger(Config{Output: &bytes.Buffer{}})
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContextOr(ctx, fallback))
}
