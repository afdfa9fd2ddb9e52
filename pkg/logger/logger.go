// Package logger configures the structured logger shared by the CLI and the
// library packages. Logs are JSON lines on stderr so stdout stays free for
// rendered tables.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/ctable/pkg/settings"
)

type loggerContextKey struct{}

const (
	CommandKey   = "command"
	InputKey     = "input"
	CommitKey    = "commit"
	VersionKey   = "version"
	GoVersionKey = "go_version"
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

var (
	once sync.Once

	// zapLogger backs Sync; logrLogger is what callers receive. Both are read
	// without holding once, so they are published atomically.
	zapLogger  atomic.Pointer[zap.Logger]
	logrLogger atomic.Pointer[logr.Logger]

	noopLogger = logr.Discard()
)

// Get builds the process logger on first use and returns it. logLevel is a
// zapcore level: -1 debug, 0 info. Later calls ignore logLevel.
func Get(logLevel int8) *logr.Logger {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		goVersion := "unknown"
		if info, ok := debug.ReadBuildInfo(); ok {
			goVersion = info.GoVersion
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			zap.NewAtomicLevelAt(zapcore.Level(logLevel)),
		).With([]zapcore.Field{
			zap.String(CommitKey, settings.VersionInformation.Commit),
			zap.String(VersionKey, settings.VersionInformation.BuildVersion),
			zap.String(GoVersionKey, goVersion),
		})

		zl := zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		)
		zapLogger.Store(zl)
		l := zapr.NewLogger(zl)
		logrLogger.Store(&l)
	})
	if l := logrLogger.Load(); l != nil {
		return l
	}
	return &noopLogger
}

// WithLogger attaches log to ctx. The same logger is not attached twice.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if current, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && current == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger carried by ctx, the process logger when ctx
// has none, or a discarding logger when Get was never called.
func FromContext(ctx context.Context) *logr.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
			return log
		}
	}
	if l := logrLogger.Load(); l != nil {
		return l
	}
	return &noopLogger
}

// WithValues returns a copy of lgr carrying keysAndValues.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	l := lgr.WithValues(keysAndValues...)
	return &l
}

// Sync flushes buffered entries. Call it once before the process exits.
func Sync() {
	zl := zapLogger.Load()
	if zl == nil {
		return
	}
	if err := zl.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// isIgnorableSyncError matches the errors stderr returns when it is a pipe
// or terminal, including the Windows "handle is invalid" message.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}
