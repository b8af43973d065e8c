package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// jsonHandler writes one JSON object per line with a fixed key order:
// event first, then record attributes, logger, level, exception, and
// timestamp last.
type jsonHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newJSONHandler(w io.Writer, level slog.Leveler) *jsonHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &jsonHandler{mu: &sync.Mutex{}, writer: w, level: level}
}

type exceptionEntry struct {
	Key     string `json:"key"`
	Type    string `json:"exc_type"`
	Value   string `json:"exc_value"`
	IsCause bool   `json:"is_cause"`
}

func (h *jsonHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *jsonHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}
	logger, fields := collectFields(h.attrs, h.groups, record)

	var buf bytes.Buffer
	buf.Grow(256 + len(fields)*32)
	obj := objectWriter{buf: &buf}

	obj.field("event", record.Message)
	var exceptions []exceptionEntry
	for _, field := range fields {
		switch field.key {
		case "event", FieldLogger, "level", "exception", "timestamp":
			continue
		}
		if err := asError(field.value); err != nil {
			for _, link := range errorChain(err) {
				exceptions = append(exceptions, exceptionEntry{
					Key:     field.key,
					Type:    link.Type,
					Value:   link.Message,
					IsCause: link.Depth > 0,
				})
			}
		}
		obj.field(field.key, jsonValue(field.value))
	}
	if logger != "" {
		obj.field(FieldLogger, logger)
	}
	obj.field("level", levelName(record.Level))
	if len(exceptions) > 0 {
		obj.field("exception", exceptions)
	}
	obj.field("timestamp", formatTimestamp(record.Time))
	buf.WriteString("}\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, prefixAttrs(h.groups, attrs)...)
	return clone
}

func (h *jsonHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *jsonHandler) clone() *jsonHandler {
	return &jsonHandler{
		mu:     h.mu,
		writer: h.writer,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

type objectWriter struct {
	buf   *bytes.Buffer
	count int
}

func (o *objectWriter) field(key string, value any) {
	if o.count == 0 {
		o.buf.WriteByte('{')
	} else {
		o.buf.WriteString(", ")
	}
	o.count++
	writeJSON(o.buf, key)
	o.buf.WriteString(": ")
	writeJSON(o.buf, value)
}

func writeJSON(buf *bytes.Buffer, value any) {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		scratch.Reset()
		_ = enc.Encode(fmt.Sprint(value))
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
}

func jsonValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		switch value := v.Any().(type) {
		case error:
			return value.Error()
		case json.Marshaler:
			return value
		case fmt.Stringer:
			return value.String()
		default:
			return value
		}
	default:
		return v.String()
	}
}
