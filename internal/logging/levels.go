package logging

import (
	"log/slog"

	"logconf/internal/config"
)

// LevelCritical sits above slog.LevelError.
const LevelCritical = slog.Level(12)

// SlogLevel maps a configured level name onto the slog scale.
func SlogLevel(level config.Level) slog.Level {
	switch level {
	case config.LevelDebug:
		return slog.LevelDebug
	case config.LevelWarning:
		return slog.LevelWarn
	case config.LevelError:
		return slog.LevelError
	case config.LevelCritical:
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// levelName renders a slog level with the lowercase names used in output.
func levelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "critical"
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// verbosestLevel is the lowest threshold any logger may request, which is the
// level the output handlers must accept.
func verbosestLevel(cfg config.Config) slog.Level {
	lowest := SlogLevel(cfg.Level)
	if level, ok := cfg.Patterns.MinLevel(); ok {
		if l := SlogLevel(level); l < lowest {
			lowest = l
		}
	}
	return lowest
}
