package completion

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestDispatcher(t *testing.T, root string, lookupEnv func(string) (string, bool)) *Dispatcher {
	t.Helper()
	return NewDispatcher(DispatcherOptions{
		Cwd:       func() string { return root },
		LookupEnv: lookupEnv,
		Logger:    zap.NewNop(),
	})
}

func TestDispatchRoutesFirstWordToCommands(t *testing.T) {
	d := newTestDispatcher(t, t.TempDir(), noEnv)

	result := d.Dispatch("r", 0, 1)
	assert.Equal(t, SourceCommands, result.Source)
	assert.Equal(t, []string{"run"}, result.Candidates)
	assert.False(t, result.Truncated)
}

func TestDispatchRoutesLaterWordsToFiles(t *testing.T) {
	root := setupTree(t)
	d := newTestDispatcher(t, root, noEnv)

	result := d.Dispatch("src/ma", 4, 10)
	assert.Equal(t, SourceFiles, result.Source)
	assert.ElementsMatch(t, []string{"src/main.c", "src/makefile"}, result.Candidates)
}

func TestDispatchFilesReleasesDirectory(t *testing.T) {
	root := setupTree(t)
	tracker := trackOpenDir(t)
	d := newTestDispatcher(t, root, noEnv)

	d.Dispatch("src/", 4, 8)
	d.Dispatch("nosuchdir/x", 4, 15)

	assert.Equal(t, 1, tracker.opens)
	assert.Equal(t, 1, tracker.closes)
}

func TestDispatchReportsSkippedDirs(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	d := newTestDispatcher(t, t.TempDir(), envWithPath(missing))

	result := d.Dispatch("he", 0, 2)
	assert.Equal(t, []string{"help"}, result.Candidates)
	assert.Equal(t, 1, result.SkippedDirs)
}

func TestDispatchCapacity(t *testing.T) {
	d := NewDispatcher(DispatcherOptions{
		MaxCandidates: 2,
		LookupEnv:     noEnv,
	})

	result := d.Dispatch("", 0, 0)
	assert.Equal(t, []string{"help", "exit"}, result.Candidates)
	assert.True(t, result.Truncated)
}

func TestDispatchCallerOwnsCandidates(t *testing.T) {
	d := newTestDispatcher(t, t.TempDir(), noEnv)

	first := d.Dispatch("h", 0, 1).Candidates
	first[0] = "changed"

	second := d.Dispatch("h", 0, 1).Candidates
	assert.Equal(t, []string{"help", "history"}, second)
}

func TestGetCompletions(t *testing.T) {
	root := setupTree(t)
	d := newTestDispatcher(t, root, noEnv)

	tests := []struct {
		name     string
		line     string
		pos      int
		expected []string
	}{
		{"first word", "hi", 2, []string{"history"}},
		{"indented word completes files", "  do", 4, []string{"./docs"}},
		{"second word", "cat docs", 8, []string{"./docs"}},
		{"cursor mid line", "ex src/ma", 2, []string{"exit"}},
		{"no match", "zzz", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.GetCompletions(tt.line, tt.pos))
		})
	}
}

func TestGetHelpInfo(t *testing.T) {
	d := newTestDispatcher(t, t.TempDir(), noEnv)

	assert.Contains(t, d.GetHelpInfo("history", 7), "history [n | -c]")
	assert.Empty(t, d.GetHelpInfo("echo", 4))
	assert.Empty(t, d.GetHelpInfo("", 0))
	assert.Empty(t, d.GetHelpInfo("echo help", 9))
}

func TestWordBeforeCursor(t *testing.T) {
	tests := []struct {
		line  string
		pos   int
		word  string
		start int
		end   int
	}{
		{"", 0, "", 0, 0},
		{"ls", 2, "ls", 0, 2},
		{"ls -la", 6, "-la", 3, 6},
		{"ls ", 3, "", 3, 3},
		{"  cd", 4, "cd", 2, 4},
		{"cat héllo", 9, "héllo", 4, 10},
		{"ls", 10, "ls", 0, 2},
	}

	for _, tt := range tests {
		word, start, end := wordBeforeCursor(tt.line, tt.pos)
		assert.Equal(t, tt.word, word, tt.line)
		assert.Equal(t, tt.start, start, tt.line)
		assert.Equal(t, tt.end, end, tt.line)
	}
}

func TestDispatchReportsStoppedScan(t *testing.T) {
	stubOpenDir(t, map[string][]string{
		"/bin": {"hx", "hy"},
	})
	stubExecutable(t, func(string) bool { return true })

	d := NewDispatcher(DispatcherOptions{
		MaxCandidates: 2,
		LookupEnv:     envWithPath("/bin"),
	})

	result := d.Dispatch("h", 0, 1)
	assert.Equal(t, []string{"help", "history"}, result.Candidates)
	assert.True(t, result.Stopped)
	assert.False(t, result.Truncated)
}

func TestDispatchLogsFilenameQuery(t *testing.T) {
	root := setupTree(t)
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDispatcher(DispatcherOptions{
		Cwd:       func() string { return root },
		LookupEnv: noEnv,
		Logger:    zap.New(core),
	})

	d.Dispatch("src/ma", 4, 10)

	entries := logs.FilterMessage("filename completion").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "src/", fields["prefix"])
	assert.Equal(t, "ma", fields["fragment"])
	assert.Equal(t, int64(2), fields["candidates"])
}
