package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// loggerHandler is the handler behind every logger returned by GetLogger. It
// is bound to a name rather than a configuration: each call resolves the
// active state, so loggers created before Build pick up its outputs and
// thresholds. The chain built for a state is cached until the state changes.
type loggerHandler struct {
	name  string
	ops   []handlerOp
	cache *atomic.Pointer[resolvedHandler]
}

// handlerOp replays a WithAttrs or WithGroup call onto a resolved chain.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (op handlerOp) apply(h slog.Handler) slog.Handler {
	if op.group != "" {
		return h.WithGroup(op.group)
	}
	return h.WithAttrs(op.attrs)
}

type resolvedHandler struct {
	st      *state
	handler slog.Handler
}

func newLoggerHandler(name string) *loggerHandler {
	return &loggerHandler{name: name, cache: new(atomic.Pointer[resolvedHandler])}
}

func loadState() *state {
	if st := active.Load(); st != nil {
		return st
	}
	st, _ := activeState()
	return st
}

func (h *loggerHandler) resolve() slog.Handler {
	st := loadState()
	if r := h.cache.Load(); r != nil && r.st == st {
		return r.handler
	}
	handler := st.namedHandler(h.name)
	for _, op := range h.ops {
		handler = op.apply(handler)
	}
	h.cache.Store(&resolvedHandler{st: st, handler: handler})
	return handler
}

func (h *loggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.resolve().Enabled(ctx, level)
}

func (h *loggerHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.resolve().Handle(ctx, record)
}

func (h *loggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: append([]slog.Attr(nil), attrs...)})
}

func (h *loggerHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name})
}

func (h *loggerHandler) with(op handlerOp) *loggerHandler {
	ops := make([]handlerOp, 0, len(h.ops)+1)
	ops = append(ops, h.ops...)
	ops = append(ops, op)
	next := newLoggerHandler(h.name)
	next.ops = ops
	return next
}
