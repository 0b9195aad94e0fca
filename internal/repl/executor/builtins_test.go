package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelly-sh/shelly/internal/history"
	"github.com/shelly-sh/shelly/internal/repl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type builtinsFixture struct {
	exec     *REPLExecutor
	out      *bytes.Buffer
	history  *history.Manager
	builtins *Builtins
	status   Status
}

func newBuiltinsFixture(t *testing.T) *builtinsFixture {
	t.Helper()

	historyManager, err := history.NewManager(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = historyManager.Close() })

	f := &builtinsFixture{history: historyManager}
	f.builtins = NewBuiltins(config.DefaultConfig(), historyManager, func() Status { return f.status }, nil)
	f.builtins.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	f.exec, f.out = newTestExecutor(t, Options{
		ExecHandlers: []ExecMiddleware{f.builtins.Middleware()},
		CallHandler:  f.builtins.CallHandler(),
	})
	return f
}

func (f *builtinsFixture) run(t *testing.T, line string) (int, string) {
	t.Helper()
	f.out.Reset()
	code, err := f.exec.ExecuteBash(context.Background(), line)
	require.NoError(t, err)
	return code, f.out.String()
}

func TestBuiltin_Help(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, out := f.run(t, "help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Built-in commands:")
	for _, name := range []string{"help", "exit", "run", "status", "type", "history"} {
		assert.Contains(t, out, name)
	}

	code, out = f.run(t, "help history")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "history [n | -c]")

	code, out = f.run(t, "help nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "no help topics match `nope'")
}

func TestBuiltin_Run(t *testing.T) {
	f := newBuiltinsFixture(t)

	script := filepath.Join(t.TempDir(), "env.sh")
	require.NoError(t, os.WriteFile(script, []byte("RUN_VAR=$1\necho ran with $1\n"), 0644))

	code, out := f.run(t, "run "+script+" arg1")
	assert.Equal(t, 0, code)
	assert.Equal(t, "ran with arg1\n", out)

	// The script ran in the session, not a subshell.
	assert.Equal(t, "arg1", f.exec.GetEnv("RUN_VAR"))

	code, out = f.run(t, "run")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "run: usage: run <script>")
}

func TestBuiltin_RunMissingScript(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, _ := f.run(t, "run "+filepath.Join(t.TempDir(), "missing.sh"))
	assert.NotEqual(t, 0, code)
	assert.False(t, f.exec.Exited())
}

func TestBuiltin_Status(t *testing.T) {
	f := newBuiltinsFixture(t)
	f.status = Status{ExitCode: 3, Duration: 1500 * time.Millisecond}

	code, out := f.run(t, "status")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "last exit code: 3")
	assert.Contains(t, out, "last duration: 1.5s")
	assert.Contains(t, out, "history: 0 commands")
	assert.Contains(t, out, "config:\n")
	assert.Contains(t, out, "  logLevel: info")
	assert.Contains(t, out, "    maxCandidates: 4096")
}

func TestBuiltin_History(t *testing.T) {
	f := newBuiltinsFixture(t)
	for _, cmd := range []string{"echo one", "echo two", "echo three"} {
		_, err := f.history.StartCommand(cmd, "")
		require.NoError(t, err)
	}

	code, out := f.run(t, "history")
	assert.Equal(t, 0, code)
	lines := splitLines(out)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1  2 hours ago")
	assert.Contains(t, lines[0], "echo one")
	assert.Contains(t, lines[2], "3  2 hours ago")
	assert.Contains(t, lines[2], "echo three")

	code, out = f.run(t, "history 2")
	assert.Equal(t, 0, code)
	lines = splitLines(out)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2  ")
	assert.Contains(t, lines[0], "echo two")

	code, out = f.run(t, "history 0")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)

	code, out = f.run(t, "history lots")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "history: lots: numeric argument required")

	code, _ = f.run(t, "history -c")
	assert.Equal(t, 0, code)
	n, err := f.history.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBuiltin_HistoryUnavailable(t *testing.T) {
	b := NewBuiltins(config.DefaultConfig(), nil, nil, nil)
	exec, out := newTestExecutor(t, Options{ExecHandlers: []ExecMiddleware{b.Middleware()}})

	code, err := exec.ExecuteBash(context.Background(), "history")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "history is not available")
}

func TestBuiltin_Type(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, out := f.run(t, "type help history")
	assert.Equal(t, 0, code)
	assert.Equal(t, "help is a shelly builtin\nhistory is a shelly builtin\n", out)

	code, out = f.run(t, "type cd")
	assert.Equal(t, 0, code)
	assert.Equal(t, "cd is a shell builtin\n", out)

	code, out = f.run(t, "type shelly-no-such-command")
	assert.Equal(t, 1, code)
	assert.Equal(t, "shelly-no-such-command: not found\n", out)
}

func TestBuiltin_TypeShellBuiltins(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, out := f.run(t, "type echo source [ :")
	assert.Equal(t, 0, code)
	assert.Equal(t, "echo is a shell builtin\nsource is a shell builtin\n[ is a shell builtin\n: is a shell builtin\n", out)

	assert.False(t, isShellBuiltin("ls"))
	assert.False(t, isShellBuiltin("history"))
}

func TestBuiltin_FailureExitStatus(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, _ := f.run(t, "help nope || echo $?")
	assert.Equal(t, 0, code)
	assert.Contains(t, f.out.String(), "\n1\n")

	code, _ = f.run(t, "history bogus")
	assert.Equal(t, 2, code)
}

func TestBuiltin_TypeFindsExecutables(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	f := newBuiltinsFixture(t)

	code, out := f.run(t, "type sh")
	assert.Equal(t, 0, code)
	assert.Regexp(t, `^sh is .*sh\n$`, out)
}

func TestBuiltin_ExitIsInterpreters(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, _ := f.run(t, "exit 4")
	assert.Equal(t, 4, code)
	assert.True(t, f.exec.Exited())
}

func TestBuiltin_OtherCommandsPassThrough(t *testing.T) {
	f := newBuiltinsFixture(t)

	code, out := f.run(t, "echo plain")
	assert.Equal(t, 0, code)
	assert.Equal(t, "plain\n", out)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a: 1\n  b:\n    c: 2\n", indent("a: 1\nb:\n  c: 2\n"))
	assert.Equal(t, "", indent(""))
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range bytes.Split([]byte(s), []byte("\n")) {
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}
	return lines
}
