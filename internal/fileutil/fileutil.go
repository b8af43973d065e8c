package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// CheckParentWritable accepts a path whose parent directory is either missing
// (it will be created later) or writable by the current process.
func CheckParentWritable(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("invalid log file path: %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid log file path: %s: %s is not a directory", path, dir)
	}
	if !Writable(dir) {
		return fmt.Errorf("log directory is not writable: %s", dir)
	}
	return nil
}

// PrepareLogFile makes path ready for appending: the parent directory exists,
// both the directory and an existing file are writable, and a non-empty file
// receives a trailing blank line so each run starts on a fresh paragraph.
func PrepareLogFile(path string) error {
	if err := EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to setup log file at %s: %w", path, err)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("failed to setup log file at %s: path is a directory", path)
		}
		if !Writable(path) {
			return fmt.Errorf("log file is not writable: %s", path)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("failed to setup log file at %s: %w", path, err)
	}

	if dir := filepath.Dir(path); !Writable(dir) {
		return fmt.Errorf("log directory is not writable: %s", dir)
	}

	if err == nil && info.Size() > 0 {
		if err := appendSeparator(path); err != nil {
			return fmt.Errorf("failed to setup log file at %s: %w", path, err)
		}
	}
	return nil
}

func appendSeparator(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write([]byte("\n")); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
