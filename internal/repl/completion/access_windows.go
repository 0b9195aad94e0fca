//go:build windows

package completion

import (
	"os"
	"path/filepath"
	"strings"
)

// isExecutable reports whether path has one of the extensions listed in
// PATHEXT. Windows has no execute permission bit to check.
var isExecutable = func(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return false
	}

	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".com;.exe;.bat;.cmd"
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range filepath.SplitList(strings.ToLower(pathext)) {
		if e != "" && e == ext {
			return true
		}
	}
	return false
}
