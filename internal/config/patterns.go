package config

import (
	"errors"
	"regexp"
)

// PatternLevel pairs a logger-name glob with the level applied to matching
// loggers. For example "app.*" matches "app.db" and "app.http.server".
type PatternLevel struct {
	Pattern string
	Level   Level

	re *regexp.Regexp
}

// NewPatternLevel validates and compiles a pattern/level pair.
func NewPatternLevel(pattern string, level Level) (PatternLevel, error) {
	if pattern == "" {
		return PatternLevel{}, errors.New("pattern cannot be empty")
	}
	if !level.Valid() {
		return PatternLevel{}, invalidLevelError(string(level))
	}
	re, err := compileGlob(pattern)
	if err != nil {
		return PatternLevel{}, err
	}
	return PatternLevel{Pattern: pattern, Level: level, re: re}, nil
}

// Matches reports whether loggerName matches the pattern.
func (p PatternLevel) Matches(loggerName string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(loggerName)
}

// PatternLevels is an ordered, copy-on-write list of pattern levels. Earlier
// entries take precedence.
type PatternLevels struct {
	entries []PatternLevel
}

// WithPattern returns a new list with the pair appended at the lowest
// priority. The receiver is left unchanged.
func (p PatternLevels) WithPattern(pattern string, level Level) (PatternLevels, error) {
	entry, err := NewPatternLevel(pattern, level)
	if err != nil {
		return p, err
	}
	next := make([]PatternLevel, len(p.entries), len(p.entries)+1)
	copy(next, p.entries)
	return PatternLevels{entries: append(next, entry)}, nil
}

// Match returns the first entry matching loggerName.
func (p PatternLevels) Match(loggerName string) (PatternLevel, bool) {
	for _, entry := range p.entries {
		if entry.Matches(loggerName) {
			return entry, true
		}
	}
	return PatternLevel{}, false
}

// LevelFor returns the level of the first pattern matching loggerName.
func (p PatternLevels) LevelFor(loggerName string) (Level, bool) {
	entry, ok := p.Match(loggerName)
	return entry.Level, ok
}

// EffectiveLevel returns the level applied to loggerName: the first matching
// pattern's level, or the global level.
func (c *Config) EffectiveLevel(loggerName string) Level {
	if level, ok := c.Patterns.LevelFor(loggerName); ok {
		return level
	}
	return c.Level
}

// MinLevel returns the most verbose level requested by any pattern.
func (p PatternLevels) MinLevel() (Level, bool) {
	var lowest Level
	for _, entry := range p.entries {
		if lowest == "" || entry.Level.Severity() < lowest.Severity() {
			lowest = entry.Level
		}
	}
	return lowest, lowest != ""
}

// Entries returns a copy of the pairs in priority order.
func (p PatternLevels) Entries() []PatternLevel {
	out := make([]PatternLevel, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of patterns.
func (p PatternLevels) Len() int {
	return len(p.entries)
}
