// Package logging turns a config.Config into slog handlers and hands out
// named loggers.
//
// Configure loads settings (or defaults) and returns a Builder; Build installs
// the result exactly once per process and makes it the slog default. Loggers
// obtained through GetLogger carry a logger=<name> attribute and enforce the
// first matching pattern level, falling back to the global level. Records fan
// out to a human-readable console handler and, when enabled, a JSON lines file
// handler backed by a size-rotating writer.
//
// GetLogger works before Build: it installs console-only defaults and warns
// once so early log lines are never lost.
package logging
