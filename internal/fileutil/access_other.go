//go:build !unix

package fileutil

import (
	"os"
	"path/filepath"
)

// Writable reports whether the current process may write to path. Without
// access(2) the check opens the file, or creates and removes a probe file in
// a directory.
func Writable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return false
		}
		_ = file.Close()
		return true
	}
	probe, err := os.CreateTemp(path, ".logconf-probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(filepath.Clean(name))
	return true
}
