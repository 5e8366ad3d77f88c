package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFieldsAndLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromCore(core, LevelInfo)

	logger.Debug("hidden")
	logger.With(String("object", "cube")).Info("pass finished",
		Int("vertices", 8),
		Float64("tobs", 2.5),
		Duration("took", time.Millisecond),
		Uint64("fingerprint", 42),
		Bool("degenerate", false),
		Error(errors.New("boom")),
		Any("velocity", []float64{0.1, 0, 0}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "pass finished", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "cube", fields["object"])
	assert.Equal(t, int64(8), fields["vertices"])
	assert.Equal(t, 2.5, fields["tobs"])
	assert.Equal(t, uint64(42), fields["fingerprint"])
	assert.Equal(t, "boom", fields["error"])

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Named("server").Debug("now visible")
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "server", logs.All()[1].LoggerName)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "error": LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", Int("n", 1))
	assert.NoError(t, l.Sync())
}
