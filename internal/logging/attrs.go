package logging

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

const (
	// FieldLogger carries the logger name on every record.
	FieldLogger = "logger"
	// FieldRunID carries the per-process identifier when run_id is enabled.
	FieldRunID = "run_id"
	// FieldError is the conventional key for error values.
	FieldError = "error"
)

// Attr is slog.Attr, re-exported so callers need only this package.
type Attr = slog.Attr

// Any returns an attribute holding an arbitrary value.
func Any(key string, value any) Attr { return slog.Any(key, value) }

// Bool returns a boolean attribute.
func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

// Duration returns a duration attribute.
func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

// Int returns an integer attribute.
func Int(key string, value int) Attr { return slog.Int(key, value) }

// Int64 returns a 64-bit integer attribute.
func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

// String returns a string attribute.
func String(key string, value string) Attr { return slog.String(key, value) }

// Error returns err under FieldError. Handlers expand its unwrap chain.
func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "<nil>")
	}
	return slog.Any(FieldError, err)
}

// Args converts attrs to the variadic form accepted by slog.Logger methods.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// Critical logs msg at LevelCritical, attributing the record to the caller.
func Critical(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !logger.Enabled(ctx, LevelCritical) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	record := slog.NewRecord(time.Now(), LevelCritical, msg, pcs[0])
	record.Add(args...)
	_ = logger.Handler().Handle(ctx, record)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
