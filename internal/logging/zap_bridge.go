package logging

import (
	"context"
	"log/slog"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger returns a zap logger whose entries flow through the same outputs
// and per-name threshold as GetLogger(name), for dependencies that log with
// zap.
func ZapLogger(name string) *zap.Logger {
	_, warn := activeState()
	if warn {
		newLogger(name).Warn(consoleOnlyWarning)
	}
	return zap.New(&slogCore{handler: newLoggerHandler(name)})
}

// slogCore adapts a slog.Handler to zapcore.Core.
type slogCore struct {
	handler slog.Handler
	fields  []zapcore.Field
}

func (c *slogCore) Enabled(level zapcore.Level) bool {
	return c.handler.Enabled(context.Background(), zapToSlogLevel(level))
}

func (c *slogCore) With(fields []zapcore.Field) zapcore.Core {
	next := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	next = append(next, c.fields...)
	next = append(next, fields...)
	return &slogCore{handler: c.handler, fields: next}
}

func (c *slogCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *slogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	errs := make(map[string]error)
	for _, group := range [][]zapcore.Field{c.fields, fields} {
		for _, field := range group {
			// Errors stay error-valued so handlers can expand their chains.
			if err, ok := field.Interface.(error); ok && field.Type == zapcore.ErrorType {
				errs[field.Key] = err
				delete(enc.Fields, field.Key)
				continue
			}
			delete(errs, field.Key)
			field.AddTo(enc)
		}
	}

	var pc uintptr
	if entry.Caller.Defined {
		pc = entry.Caller.PC
	}
	record := slog.NewRecord(entry.Time, zapToSlogLevel(entry.Level), entry.Message, pc)
	if entry.LoggerName != "" {
		record.AddAttrs(slog.String("zap_logger", entry.LoggerName))
	}
	keys := make([]string, 0, len(enc.Fields)+len(errs))
	for key := range enc.Fields {
		keys = append(keys, key)
	}
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err, ok := errs[key]; ok {
			record.AddAttrs(slog.Any(key, err))
			continue
		}
		record.AddAttrs(slog.Any(key, enc.Fields[key]))
	}
	return c.handler.Handle(context.Background(), record)
}

func (c *slogCore) Sync() error {
	return nil
}

func zapToSlogLevel(level zapcore.Level) slog.Level {
	switch {
	case level >= zapcore.DPanicLevel:
		return LevelCritical
	case level >= zapcore.ErrorLevel:
		return slog.LevelError
	case level >= zapcore.WarnLevel:
		return slog.LevelWarn
	case level >= zapcore.InfoLevel:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
