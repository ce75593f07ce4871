package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SafeLogger wraps a zap logger and is safe to use before InitLogger runs
// or when the wrapped logger is nil.
type SafeLogger struct {
	mu     sync.RWMutex
	logger *zap.Logger
}

var (
	// Logger is the global logger instance
	Logger = &SafeLogger{logger: zap.NewNop()}
)

// NewSafeLogger wraps an existing zap logger
func NewSafeLogger(l *zap.Logger) *SafeLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &SafeLogger{logger: l}
}

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	built, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "produkta"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger.set(built)
	zap.ReplaceGlobals(built)
	return nil
}

func (l *SafeLogger) set(z *zap.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = z
}

func (l *SafeLogger) get() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}

// Unwrap returns the underlying zap logger
func (l *SafeLogger) Unwrap() *zap.Logger {
	return l.get()
}

// Named returns a child logger with the given name
func (l *SafeLogger) Named(name string) *SafeLogger {
	return NewSafeLogger(l.get().Named(name))
}

// With returns a child logger carrying the given fields
func (l *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	return NewSafeLogger(l.get().With(fields...))
}

func (l *SafeLogger) Debug(msg string, fields ...zap.Field) { l.get().Debug(msg, fields...) }
func (l *SafeLogger) Info(msg string, fields ...zap.Field)  { l.get().Info(msg, fields...) }
func (l *SafeLogger) Warn(msg string, fields ...zap.Field)  { l.get().Warn(msg, fields...) }
func (l *SafeLogger) Error(msg string, fields ...zap.Field) { l.get().Error(msg, fields...) }
func (l *SafeLogger) Fatal(msg string, fields ...zap.Field) { l.get().Fatal(msg, fields...) }

// Sync flushes any buffered log entries
func (l *SafeLogger) Sync() error {
	return l.get().Sync()
}
