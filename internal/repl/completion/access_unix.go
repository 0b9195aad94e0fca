//go:build !windows

package completion

import "golang.org/x/sys/unix"

// isExecutable reports whether the effective user may execute path. Plain
// access(2) would check the real user instead.
var isExecutable = func(path string) bool {
	return unix.Faccessat(unix.AT_FDCWD, path, unix.X_OK, unix.AT_EACCESS) == nil
}
