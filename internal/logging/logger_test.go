package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSafeLogger_NilReceiver(t *testing.T) {
	var l *SafeLogger

	// Should not panic
	l.Info("message")
	l.Debug("message", zap.String("k", "v"))
	assert.NotNil(t, l.Unwrap())
}

func TestSafeLogger_DefaultGlobal(t *testing.T) {
	require.NotNil(t, Logger)
	Logger.Warn("usable before InitLogger")
}

func TestSafeLogger_WritesToWrappedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewSafeLogger(zap.New(core))

	l.Info("sector created", zap.Int64("sector_id", 3))
	l.Named("gateway").Error("failed", zap.String("op", "list"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "sector created", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["sector_id"])
	assert.Equal(t, "gateway", entries[1].LoggerName)
}

func TestSafeLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewSafeLogger(zap.New(core)).With(zap.String("request_id", "abc"))

	l.Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["request_id"])
}

func TestInitLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	require.NoError(t, InitLogger())
	assert.True(t, Logger.Unwrap().Core().Enabled(zap.DebugLevel))
}
