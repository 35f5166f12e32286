package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey struct{}

const (
	TimeStampKey = "timestamp"
	MessageKey   = "message"
	SessionKey   = "session"
)

var (
	mu        sync.Mutex
	zapLogger *zap.Logger
	global    = logr.Discard()
)

// Setup builds the process logger writing JSON lines to w (stderr when nil)
// at the given level ("debug", "info", "warn", "error"). It replaces any
// logger configured earlier.
func Setup(level string, w io.Writer) (logr.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}
	if w == nil {
		w = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(lvl),
	)
	zl := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.DPanicLevel))

	mu.Lock()
	defer mu.Unlock()
	zapLogger = zl
	global = zapr.NewLogger(zl)
	return global, nil
}

// ParseLevel maps a textual level to a zap level. Empty means warn.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zapcore.WarnLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Global returns the logger configured by Setup, or a discarding logger.
func Global() logr.Logger {
	mu.Lock()
	defer mu.Unlock()
	return global
}

// WithLogger returns a new context carrying log.
func WithLogger(ctx context.Context, log logr.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext retrieves the logger stored in ctx, falling back to Global.
func FromContext(ctx context.Context) logr.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(contextKey{}).(logr.Logger); ok {
			return log
		}
	}
	return Global()
}

// Sync flushes buffered log entries. Call before exit.
func Sync() {
	mu.Lock()
	zl := zapLogger
	mu.Unlock()
	if zl == nil {
		return
	}
	if err := zl.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to sync logger: %v\n", err)
	}
}

// isIgnorableSyncError reports the errors stderr returns on pipes and TTYs.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EBADF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "inappropriate ioctl") || strings.Contains(msg, "invalid argument")
}
