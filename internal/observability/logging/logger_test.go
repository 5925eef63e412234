package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{name: "default is info", value: "", want: slog.LevelInfo},
		{name: "debug", value: "debug", want: slog.LevelDebug},
		{name: "warn", value: "warn", want: slog.LevelWarn},
		{name: "error", value: "error", want: slog.LevelError},
		{name: "case insensitive", value: "DEBUG", want: slog.LevelDebug},
		{name: "unknown falls back to info", value: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			assert.Equal(t, tt.want, Level())
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	logger := NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewTextLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	logger := NewTextLogger()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestWithFields(t *testing.T) {
	logger := NewLogger()

	enriched := WithFields(logger, map[string]any{"provider": "recreationgov", "attempt": 2})
	require.NotNil(t, enriched)
	assert.NotSame(t, logger, enriched)
}

func TestLoggerContext(t *testing.T) {
	logger := NewLogger()
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
