// Package executor runs the lines entered at the shelly prompt through an
// mvdan.cc/sh runner, keeping shell state (variables, functions, working
// directory) across lines.
package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shelly-sh/shelly/internal/bash"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ExecMiddleware is a function that wraps an ExecHandlerFunc to provide
// additional functionality (e.g., command interception, logging).
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// Options configures a REPLExecutor.
type Options struct {
	Logger *zap.Logger

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the initial environment as KEY=value pairs. Defaults to
	// os.Environ.
	Env []string

	// ExecHandlers intercept commands that are not shell builtins, outermost
	// first.
	ExecHandlers []ExecMiddleware

	// CallHandler sees every simple command before it runs and may rewrite
	// its arguments.
	CallHandler interp.CallHandlerFunc

	// KillTimeout is how long an interrupted foreground job gets before it
	// is killed.
	KillTimeout time.Duration
}

// REPLExecutor handles command execution for the REPL.
type REPLExecutor struct {
	runner    *interp.Runner
	logger    *zap.Logger
	varsMutex sync.RWMutex // Protects concurrent access to runner.Vars
}

// NewREPLExecutor creates a new REPLExecutor. External commands run as
// foreground jobs in their own process group.
func NewREPLExecutor(opts Options) (*REPLExecutor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}

	killTimeout := opts.KillTimeout
	if killTimeout == 0 {
		killTimeout = 2 * time.Second
	}

	handlers := append([]ExecMiddleware{}, opts.ExecHandlers...)
	handlers = append(handlers, func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return bash.NewProcessGroupExecHandler(killTimeout)
	})

	runnerOpts := []interp.RunnerOption{
		interp.Interactive(true),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(stdin, stdout, stderr),
		interp.ExecHandlers(handlers...),
	}
	if opts.CallHandler != nil {
		runnerOpts = append(runnerOpts, interp.CallHandler(opts.CallHandler))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bash runner: %w", err)
	}

	return &REPLExecutor{
		runner: runner,
		logger: logger,
	}, nil
}

// ExecuteBash runs a line in the shell session. Returns the exit code and
// any execution error; a non-zero exit is not an error.
func (e *REPLExecutor) ExecuteBash(ctx context.Context, command string) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return 1, fmt.Errorf("failed to parse bash command: %w", err)
	}

	e.varsMutex.Lock()
	defer e.varsMutex.Unlock()

	code, err := bash.ExitCode(e.runner.Run(ctx, prog))
	e.logger.Debug("executed command",
		zap.String("command", command),
		zap.Int("exitCode", code),
		zap.Bool("exited", e.runner.Exited()))
	return code, err
}

// ExecuteBashInSubshell runs a command in a subshell, capturing output.
// Returns stdout, stderr, exit code, and any execution error.
func (e *REPLExecutor) ExecuteBashInSubshell(ctx context.Context, command string) (string, string, int, error) {
	e.varsMutex.RLock()
	defer e.varsMutex.RUnlock()
	return bash.Capture(ctx, e.runner, command)
}

// RunScript runs a script file in the shell session.
func (e *REPLExecutor) RunScript(ctx context.Context, path string) (int, error) {
	e.varsMutex.Lock()
	defer e.varsMutex.Unlock()
	return bash.ExitCode(bash.RunScriptFile(ctx, e.runner, path))
}

// RunScriptFromReader runs a script read from reader in the shell session.
func (e *REPLExecutor) RunScriptFromReader(ctx context.Context, reader io.Reader, name string) (int, error) {
	e.varsMutex.Lock()
	defer e.varsMutex.Unlock()
	return bash.ExitCode(bash.RunScript(ctx, e.runner, reader, name))
}

// Exited reports whether the last command asked the shell to exit.
func (e *REPLExecutor) Exited() bool {
	return e.runner.Exited()
}

// GetEnv gets a shell variable value. Unset variables read as "".
func (e *REPLExecutor) GetEnv(name string) string {
	value, _ := e.LookupEnv(name)
	return value
}

// LookupEnv reads a variable as the shell session sees it. The second
// return value is false once the variable has been unset, even if the
// session started with it.
func (e *REPLExecutor) LookupEnv(name string) (string, bool) {
	e.varsMutex.RLock()
	defer e.varsMutex.RUnlock()

	var vr expand.Variable
	if len(e.runner.Vars) > 0 {
		// Vars holds the whole scope after the first Run, unset
		// variables included.
		vr = e.runner.Vars[name]
	} else if e.runner.Env != nil {
		vr = e.runner.Env.Get(name)
	}
	if !vr.IsSet() {
		return "", false
	}
	return vr.String(), true
}

// GetPwd returns the working directory of the shell session. It follows
// cd without changing the directory of the process.
func (e *REPLExecutor) GetPwd() string {
	return e.runner.Dir
}
