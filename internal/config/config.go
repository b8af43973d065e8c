package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"logconf/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// FileOutput contains configuration for the rotating JSON file output.
type FileOutput struct {
	Path        string
	MaxSize     int64 // bytes before rotation
	BackupCount int   // rotated files kept; 0 disables rotation
	Encoding    string
	Enabled     bool
	MaxAgeDays  int
	Compress    bool
}

// WithPath returns a copy pointing at path with file output enabled. The
// parent directory must be absent or writable.
func (f FileOutput) WithPath(path string) (FileOutput, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return f, err
	}
	if err := fileutil.CheckParentWritable(expanded); err != nil {
		return f, err
	}
	f.Path = expanded
	f.Enabled = true
	return f, nil
}

// Enable returns a copy with file output enabled.
func (f FileOutput) Enable() FileOutput {
	f.Enabled = true
	return f
}

// ConsoleOutput contains configuration for the stdout handler.
type ConsoleOutput struct {
	Colors     bool
	RichErrors bool
}

// Config is the complete logging configuration.
type Config struct {
	Level    Level
	File     FileOutput
	Console  ConsoleOutput
	Patterns PatternLevels
	RunID    bool
}

type rawDocument struct {
	Logging *rawLogging `toml:"logging"`
}

type rawLogging struct {
	Level    *string           `toml:"level"`
	RunID    bool              `toml:"run_id"`
	File     *rawFile          `toml:"file"`
	Console  *rawConsole       `toml:"console"`
	Patterns map[string]string `toml:"patterns"`
}

type rawFile struct {
	Path        *string `toml:"path"`
	MaxSize     any     `toml:"max_size"`
	BackupCount *int    `toml:"backup_count"`
	Encoding    *string `toml:"encoding"`
	MaxAgeDays  *int    `toml:"max_age_days"`
	Compress    *bool   `toml:"compress"`
}

func (r *rawFile) empty() bool {
	return r == nil || (r.Path == nil && r.MaxSize == nil && r.BackupCount == nil &&
		r.Encoding == nil && r.MaxAgeDays == nil && r.Compress == nil)
}

type rawConsole struct {
	Colors         *bool `toml:"colors"`
	RichTracebacks *bool `toml:"rich_tracebacks"`
}

// Load reads, normalizes, and validates the TOML file at path.
func Load(path string) (*Config, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s: %w", expanded, err)
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("failed to parse TOML file %s: %w", expanded, err)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse builds a Config from TOML document bytes.
func Parse(data []byte) (*Config, error) {
	var doc rawDocument
	decoder := toml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid value in configuration file: %w", err)
	}
	if doc.Logging == nil {
		return nil, missingKey("logging")
	}
	if doc.Logging.Level == nil {
		return nil, missingKey("level")
	}

	level, err := ParseLevel(*doc.Logging.Level)
	if err != nil {
		return nil, invalidValue(err)
	}

	file, err := fileFromRaw(doc.Logging.File)
	if err != nil {
		return nil, err
	}

	order, err := patternOrder(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern order: %w", err)
	}
	patterns, err := patternsFromRaw(doc.Logging.Patterns, order)
	if err != nil {
		return nil, invalidValue(err)
	}

	cfg := &Config{
		Level:    level,
		File:     file,
		Console:  consoleFromRaw(doc.Logging.Console),
		Patterns: patterns,
		RunID:    doc.Logging.RunID,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, invalidValue(err)
	}
	return cfg, nil
}

func fileFromRaw(raw *rawFile) (FileOutput, error) {
	if raw.empty() {
		return defaultFileOutput(defaultLogFile), nil
	}
	if raw.Path == nil {
		return FileOutput{}, missingKey("path")
	}
	if raw.MaxSize == nil {
		return FileOutput{}, missingKey("max_size")
	}
	if raw.BackupCount == nil {
		return FileOutput{}, missingKey("backup_count")
	}
	size, err := parseSize(raw.MaxSize)
	if err != nil {
		return FileOutput{}, invalidValue(err)
	}
	file := FileOutput{
		Path:        *raw.Path,
		MaxSize:     size,
		BackupCount: *raw.BackupCount,
		Encoding:    defaultEncoding,
		Enabled:     true,
	}
	if raw.Encoding != nil {
		file.Encoding = *raw.Encoding
	}
	if raw.MaxAgeDays != nil {
		file.MaxAgeDays = *raw.MaxAgeDays
	}
	if raw.Compress != nil {
		file.Compress = *raw.Compress
	}
	return file, nil
}

func consoleFromRaw(raw *rawConsole) ConsoleOutput {
	console := ConsoleOutput{Colors: true, RichErrors: true}
	if raw == nil {
		return console
	}
	if raw.Colors != nil {
		console.Colors = *raw.Colors
	}
	if raw.RichTracebacks != nil {
		console.RichErrors = *raw.RichTracebacks
	}
	return console
}

func patternsFromRaw(values map[string]string, order []string) (PatternLevels, error) {
	var patterns PatternLevels
	if len(values) == 0 {
		return patterns, nil
	}
	seen := make(map[string]struct{}, len(values))
	add := func(pattern string) error {
		if _, ok := seen[pattern]; ok {
			return nil
		}
		raw, ok := values[pattern]
		if !ok {
			return nil
		}
		seen[pattern] = struct{}{}
		level, err := ParseLevel(raw)
		if err != nil {
			return err
		}
		next, err := patterns.WithPattern(pattern, level)
		if err != nil {
			return err
		}
		patterns = next
		return nil
	}
	for _, pattern := range order {
		if err := add(pattern); err != nil {
			return patterns, err
		}
	}
	// Keys the ordered scan could not place keep a stable sorted order.
	for _, pattern := range sortedKeys(values) {
		if err := add(pattern); err != nil {
			return patterns, err
		}
	}
	return patterns, nil
}

func missingKey(key string) error {
	return fmt.Errorf("missing required configuration key: %s", key)
}

func invalidValue(err error) error {
	return fmt.Errorf("invalid value in configuration file: %w", err)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules (tilde, relative to absolute)
// for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
