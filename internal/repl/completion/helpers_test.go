package completion

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates an empty file at path with the given permissions,
// creating parent directories as needed.
func writeFile(t *testing.T, path string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("test"), perm))
	require.NoError(t, os.Chmod(path, perm))
}

// fakeEntry is an in-memory fs.DirEntry.
type fakeEntry struct {
	name string
	typ  fs.FileMode
}

func (e fakeEntry) Name() string               { return e.name }
func (e fakeEntry) IsDir() bool                { return e.typ.IsDir() }
func (e fakeEntry) Type() fs.FileMode          { return e.typ }
func (e fakeEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrInvalid }

// fakeDir hands out its entries in the order they were given.
type fakeDir struct {
	entries []fs.DirEntry
	tracker *dirTracker
}

func (d *fakeDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n <= 0 || n > len(d.entries) {
		n = len(d.entries)
	}
	out := d.entries[:n]
	d.entries = d.entries[n:]
	return out, nil
}

func (d *fakeDir) Close() error {
	d.tracker.closes++
	return nil
}

// dirTracker counts directory opens and closes.
type dirTracker struct {
	opens  int
	closes int
}

type trackedDir struct {
	dirReader
	tracker *dirTracker
}

func (d *trackedDir) Close() error {
	d.tracker.closes++
	return d.dirReader.Close()
}

// trackOpenDir wraps the real openDir so a test can check that every opened
// directory is closed exactly once.
func trackOpenDir(t *testing.T) *dirTracker {
	t.Helper()
	tracker := &dirTracker{}
	original := openDir
	openDir = func(path string) (dirReader, error) {
		d, err := original(path)
		if err != nil {
			return nil, err
		}
		tracker.opens++
		return &trackedDir{dirReader: d, tracker: tracker}, nil
	}
	t.Cleanup(func() { openDir = original })
	return tracker
}

// stubOpenDir replaces openDir with in-memory directories. Paths not in dirs
// fail to open.
func stubOpenDir(t *testing.T, dirs map[string][]string) *dirTracker {
	t.Helper()
	tracker := &dirTracker{}
	original := openDir
	openDir = func(path string) (dirReader, error) {
		names, ok := dirs[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		tracker.opens++
		entries := make([]fs.DirEntry, len(names))
		for i, name := range names {
			entries[i] = fakeEntry{name: name}
		}
		return &fakeDir{entries: entries, tracker: tracker}, nil
	}
	t.Cleanup(func() { openDir = original })
	return tracker
}

// stubExecutable replaces the permission check.
func stubExecutable(t *testing.T, fn func(path string) bool) {
	t.Helper()
	original := isExecutable
	isExecutable = fn
	t.Cleanup(func() { isExecutable = original })
}

// envWithPath returns a LookupEnv func that only knows PATH.
func envWithPath(dirs ...string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if key != "PATH" {
			return "", false
		}
		value := ""
		for i, d := range dirs {
			if i > 0 {
				value += string(os.PathListSeparator)
			}
			value += d
		}
		return value, true
	}
}

func noEnv(string) (string, bool) {
	return "", false
}

// drain runs a generator from state 0 until it reports end-of-sequence.
func drain(next func(string, int) (string, bool), text string) []string {
	out := []string{}
	for state := 0; ; state++ {
		c, ok := next(text, state)
		if !ok {
			return out
		}
		out = append(out, c)
	}
}
