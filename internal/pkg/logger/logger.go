// Package logger is a thin zap wrapper with context-aware helpers.
// The request id stored by WithRequestID is attached to every entry logged
// with that context.
package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init builds the process logger. format is "json" or "console".
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch format {
	case "", "json":
		cfg.Encoding = "json"
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return fmt.Errorf("log format %q: want json or console", format)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the process logger. Tests use it with an observer core.
func Set(l *zap.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Sync() { _ = L().Sync() }

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func sugar(ctx context.Context) *zap.SugaredLogger {
	l := L()
	if id := RequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	return l.Sugar()
}

func Debugf(ctx context.Context, format string, args ...any) { sugar(ctx).Debugf(format, args...) }
func Infof(ctx context.Context, format string, args ...any)  { sugar(ctx).Infof(format, args...) }
func Warnf(ctx context.Context, format string, args ...any)  { sugar(ctx).Warnf(format, args...) }
func Errorf(ctx context.Context, format string, args ...any) { sugar(ctx).Errorf(format, args...) }

// Fatal logs err and exits.
func Fatal(ctx context.Context, err error) { sugar(ctx).Fatal(err) }

// Info logs msg with structured fields.
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	L().Info(msg, fields...)
}
