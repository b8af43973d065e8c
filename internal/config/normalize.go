package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeFile(); err != nil {
		return err
	}
	return c.applyEnv()
}

func (c *Config) normalizeFile() error {
	var err error
	if c.File.Path, err = expandPath(c.File.Path); err != nil {
		return fmt.Errorf("logging.file.path: %w", err)
	}
	c.File.Encoding = strings.ToLower(strings.TrimSpace(c.File.Encoding))
	if c.File.Encoding == "" {
		c.File.Encoding = defaultEncoding
	}
	if c.File.MaxAgeDays < 0 {
		c.File.MaxAgeDays = 0
	}
	return nil
}

func (c *Config) applyEnv() error {
	value, ok := os.LookupEnv(EnvLevel)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	level, err := ParseLevel(value)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvLevel, err)
	}
	c.Level = level
	return nil
}

// ApplyEnv applies environment overrides to a Config built in code.
func (c *Config) ApplyEnv() error {
	return c.applyEnv()
}
