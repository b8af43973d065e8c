// Package config loads, normalizes, and validates logging configuration.
//
// It supplies defaults, reads the `[logging]` tables of a TOML file (including
// the ordered `[logging.patterns]` table), expands user paths such as `~/logs`,
// and honours the LOGCONF_LEVEL environment override. Level names and
// glob-style logger-name patterns are validated here so the logging package
// only ever receives a coherent Config.
//
// Always obtain settings through Load or Default so downstream code receives
// canonical level names, absolute paths, and clear validation errors.
package config
