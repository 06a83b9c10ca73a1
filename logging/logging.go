// Package logging provides the structured logger used throughout the costmap
// module. It wraps go.uber.org/zap the way viam-server does: a small
// interface, a global default instance, and a test constructor that routes
// through zap's observer core.
package logging

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the interface every component in this module logs through.
// It intentionally exposes only the sugared, leveled calls the costmap
// packages need; nothing here depends on a particular transport.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Named(name string) Logger
	Sync() error
}

type impl struct {
	zap *zap.SugaredLogger
}

func (l *impl) Debugw(msg string, kvs ...interface{}) { l.zap.Debugw(msg, kvs...) }
func (l *impl) Infow(msg string, kvs ...interface{})  { l.zap.Infow(msg, kvs...) }
func (l *impl) Warnw(msg string, kvs ...interface{})  { l.zap.Warnw(msg, kvs...) }
func (l *impl) Errorw(msg string, kvs ...interface{}) { l.zap.Errorw(msg, kvs...) }

func (l *impl) Debug(args ...interface{}) { l.zap.Debug(args...) }
func (l *impl) Info(args ...interface{})  { l.zap.Info(args...) }
func (l *impl) Warn(args ...interface{})  { l.zap.Warn(args...) }
func (l *impl) Error(args ...interface{}) { l.zap.Error(args...) }

func (l *impl) Named(name string) Logger {
	return &impl{l.zap.Named(name)}
}

func (l *impl) Sync() error {
	return l.zap.Sync()
}

// NewZapConfig returns the zap config shared by every constructor below:
// console encoding, colored levels, no stack traces (per-tick recoverable
// errors are logged deliberately, not panicked).
func NewZapConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a new Info+ logger that writes to stdout.
func NewLogger(name string) Logger {
	l := zap.Must(NewZapConfig().Build()).Sugar().Named(name)
	return &impl{l}
}

// NewDebugLogger returns a new Debug+ logger that writes to stdout.
func NewDebugLogger(name string) Logger {
	cfg := NewZapConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	l := zap.Must(cfg.Build()).Sugar().Named(name)
	return &impl{l}
}

// NewTestLogger returns a Debug+ logger suitable for use from *testing.T;
// it fails the test on any Error-or-above log line the way viam-server's
// test loggers do, surfacing silent error logging as a test failure.
func NewTestLogger(tb testing.TB) Logger {
	core, logs := observer.New(zapcore.DebugLevel)
	zl := zap.New(core).Sugar().Named(tb.Name())
	tb.Cleanup(func() {
		_ = zl.Sync()
		for _, entry := range logs.All() {
			if entry.Level >= zapcore.ErrorLevel {
				tb.Errorf("unexpected %s log: %s %v", entry.Level, entry.Message, entry.ContextMap())
			}
		}
	})
	return &impl{zl}
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewDebugLogger("costmap")
)

// Global returns the process-wide default logger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// ReplaceGlobal swaps the process-wide default logger, e.g. from main()
// after parsing CLI flags.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}
