package completion

import (
	"path/filepath"
	"strings"
)

// Cursor is an open scan over one directory for a filename completion
// request. It remembers the directory prefix typed by the user and the
// fragment after it; each call to Next advances the scan to the next entry
// whose name starts with the fragment.
//
// A Cursor whose directory could not be opened is empty: Next immediately
// reports end-of-sequence.
type Cursor struct {
	dir           dirReader
	prefix        string
	fragment      string
	maxPathLength int
	skippedPaths  int
}

// OpenCursor starts a scan for query. The query is split at its last '/':
// everything up to and including it is the directory prefix, the rest is
// matched against entry names. Without a '/' the working directory is
// scanned and candidates carry the "./" prefix. Relative prefixes are
// resolved against cwd; an empty cwd means the process working directory.
func OpenCursor(query, cwd string, maxPathLength int) *Cursor {
	c := &Cursor{
		prefix:        "./",
		fragment:      query,
		maxPathLength: maxPathLength,
	}

	dirPath := "."
	if i := strings.LastIndexByte(query, '/'); i >= 0 {
		c.prefix = query[:i+1]
		c.fragment = query[i+1:]
		dirPath = c.prefix
	}
	if !filepath.IsAbs(dirPath) && cwd != "" {
		dirPath = filepath.Join(cwd, dirPath)
	}

	d, err := openDir(dirPath)
	if err != nil {
		return c
	}
	c.dir = d
	return c
}

// Next returns the next matching candidate, formed as prefix + entry name.
// When the directory is exhausted the cursor closes itself and Next
// reports false from then on.
func (c *Cursor) Next() (string, bool) {
	for c.dir != nil {
		// io.EOF and read errors both end the scan
		entries, _ := c.dir.ReadDir(1)
		if len(entries) == 0 {
			c.Close()
			return "", false
		}

		name := entries[0].Name()
		if !hasBytePrefix(name, c.fragment) {
			continue
		}

		candidate, ok := concatPath(c.prefix, name, c.maxPathLength)
		if !ok {
			c.skippedPaths++
			continue
		}
		return candidate, true
	}
	return "", false
}

// Close releases the directory handle. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.dir == nil {
		return nil
	}
	err := c.dir.Close()
	c.dir = nil
	return err
}

// Prefix returns the directory prefix that candidates start with.
func (c *Cursor) Prefix() string {
	return c.prefix
}

// Fragment returns the text that entry names are matched against.
func (c *Cursor) Fragment() string {
	return c.fragment
}

// SkippedPaths counts entries dropped because prefix + name was too long.
func (c *Cursor) SkippedPaths() int {
	return c.skippedPaths
}

// FilenameGenerator completes words after the first one against the
// entries of the directory named in the word. It owns at most one Cursor,
// created on state 0 and closed on exhaustion, on the next state 0, or on
// Close.
type FilenameGenerator struct {
	// Cwd returns the directory relative queries are resolved against.
	// If nil, the process working directory is used.
	Cwd func() string

	// MaxPathLength bounds candidate length. Defaults to DefaultMaxPathLength.
	MaxPathLength int

	cursor    *Cursor
	lastState int
	last      string
	lastOK    bool
}

// Next returns the candidate for the given state. State 0 starts a new
// request for query; later states advance the scan. Asking for the same
// state twice returns the same candidate without advancing.
func (g *FilenameGenerator) Next(query string, state int) (string, bool) {
	if state == 0 {
		g.Close()
		cwd := ""
		if g.Cwd != nil {
			cwd = g.Cwd()
		}
		g.cursor = OpenCursor(query, cwd, g.MaxPathLength)
		g.lastState = -1
	}
	if g.cursor == nil {
		return "", false
	}
	if state == g.lastState {
		return g.last, g.lastOK
	}

	g.last, g.lastOK = g.cursor.Next()
	g.lastState = state
	return g.last, g.lastOK
}

// Cursor returns the cursor of the current request, or nil before the
// first request.
func (g *FilenameGenerator) Cursor() *Cursor {
	return g.cursor
}

// Close aborts the current request, releasing its directory handle.
func (g *FilenameGenerator) Close() error {
	if g.cursor == nil {
		return nil
	}
	return g.cursor.Close()
}
