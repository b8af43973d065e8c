package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/htmlindex"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if !c.Level.Valid() {
		return invalidLevelError(string(c.Level))
	}
	if err := c.File.Validate(); err != nil {
		return err
	}
	for _, entry := range c.Patterns.entries {
		if entry.Pattern == "" {
			return errors.New("pattern cannot be empty")
		}
		if !entry.Level.Valid() {
			return invalidLevelError(string(entry.Level))
		}
	}
	return nil
}

// Validate checks the rotation and encoding settings.
func (f FileOutput) Validate() error {
	if f.MaxSize <= 0 {
		return errors.New("max_size must be a positive integer (bytes)")
	}
	if f.BackupCount < 0 {
		return errors.New("backup_count must be a non-negative integer")
	}
	if _, err := htmlindex.Get(f.Encoding); err != nil {
		return fmt.Errorf("unsupported encoding %q: %w", f.Encoding, err)
	}
	return nil
}
