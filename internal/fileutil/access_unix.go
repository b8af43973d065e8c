//go:build unix

package fileutil

import "golang.org/x/sys/unix"

// Writable reports whether the current process may write to path.
func Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
