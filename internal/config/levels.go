package config

import (
	"fmt"
	"sort"
	"strings"
)

// Level is a severity threshold name.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

var levelSeverity = map[Level]int{
	LevelDebug:    10,
	LevelInfo:     20,
	LevelWarning:  30,
	LevelError:    40,
	LevelCritical: 50,
}

// ParseLevel canonicalizes a level name. Matching is case-insensitive.
func ParseLevel(value string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(value)))
	if !level.Valid() {
		return "", invalidLevelError(value)
	}
	return level, nil
}

// Valid reports whether l is one of the known level names.
func (l Level) Valid() bool {
	_, ok := levelSeverity[l]
	return ok
}

// Severity orders levels; higher is more severe. Unknown levels return 0.
func (l Level) Severity() int {
	return levelSeverity[l]
}

func (l Level) String() string {
	return string(l)
}

// ValidLevels returns the accepted level names in sorted order.
func ValidLevels() []string {
	names := make([]string, 0, len(levelSeverity))
	for level := range levelSeverity {
		names = append(names, string(level))
	}
	sort.Strings(names)
	return names
}

func invalidLevelError(value string) error {
	return fmt.Errorf("invalid logging level: %q. Must be one of: %s", value, strings.Join(ValidLevels(), ", "))
}
