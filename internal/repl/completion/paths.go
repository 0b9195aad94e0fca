package completion

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/lo"
)

// DefaultMaxPathLength bounds every path built while completing.
const DefaultMaxPathLength = 4096

// dirReader is the subset of *os.File used to enumerate a directory.
type dirReader interface {
	ReadDir(n int) ([]fs.DirEntry, error)
	Close() error
}

// openDir is a variable that can be overridden for testing.
var openDir = func(path string) (dirReader, error) {
	return os.Open(path)
}

// hasBytePrefix reports whether the first len(query) bytes of s equal query.
// An empty query matches everything.
func hasBytePrefix(s, query string) bool {
	return len(s) >= len(query) && s[:len(query)] == query
}

// splitSearchPath splits a PATH-style value into its directories, keeping
// their order. Empty entries are dropped.
func splitSearchPath(value string) []string {
	if value == "" {
		return nil
	}
	return lo.Compact(filepath.SplitList(value))
}

// joinPath joins dir and name with a separator. It refuses to build a path
// longer than limit bytes instead of truncating it.
func joinPath(dir, name string, limit int) (string, bool) {
	if limit <= 0 {
		limit = DefaultMaxPathLength
	}

	sep := string(os.PathSeparator)
	if dir == "" || os.IsPathSeparator(dir[len(dir)-1]) {
		sep = ""
	}
	if len(dir)+len(sep)+len(name) > limit {
		return "", false
	}
	return dir + sep + name, true
}

// concatPath appends name to prefix verbatim, subject to the same bound as
// joinPath.
func concatPath(prefix, name string, limit int) (string, bool) {
	if limit <= 0 {
		limit = DefaultMaxPathLength
	}
	if len(prefix)+len(name) > limit {
		return "", false
	}
	return prefix + name, true
}

// isCandidateType reports whether a directory entry type may name an
// executable: regular files, symlinks, and entries whose type is unknown.
func isCandidateType(t fs.FileMode) bool {
	switch {
	case t.IsRegular():
		return true
	case t&fs.ModeSymlink != 0:
		return true
	case t&fs.ModeIrregular != 0:
		return true
	default:
		return false
	}
}
