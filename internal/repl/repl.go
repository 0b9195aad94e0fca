// Package repl provides the interactive shell of shelly. It wires the line
// editor to the completion dispatcher, runs every entered line through the
// executor, and records it in the history.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shelly-sh/shelly/internal/core"
	"github.com/shelly-sh/shelly/internal/history"
	"github.com/shelly-sh/shelly/internal/repl/completion"
	"github.com/shelly-sh/shelly/internal/repl/config"
	"github.com/shelly-sh/shelly/internal/repl/executor"
	"github.com/shelly-sh/shelly/internal/repl/input"
	"github.com/shelly-sh/shelly/internal/repl/render"
	"github.com/shelly-sh/shelly/internal/styles"
	"go.uber.org/zap"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Options configures a REPL.
type Options struct {
	// ConfigPath overrides the rc file. Empty means the first
	// ~/.shellyrc.* found.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath. Its Errors
	// are reported as usual.
	Config *config.LoadResult

	// HistoryPath overrides the history database. Empty means
	// ~/.shelly/history.db.
	HistoryPath string

	Logger       *zap.Logger
	BuildVersion string

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the initial environment. Defaults to os.Environ.
	Env []string
}

// REPL is an interactive shell session.
type REPL struct {
	config     *config.Config
	configPath string

	executor   *executor.REPLExecutor
	history    *history.Manager
	dispatcher *completion.Dispatcher
	keymap     *input.KeyMap

	logger       *zap.Logger
	buildVersion string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	lastExitCode int
	lastDuration time.Duration
}

// NewREPL loads the configuration, opens the history and creates the shell
// session.
func NewREPL(opts Options) (*REPL, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &REPL{
		logger:       logger,
		buildVersion: opts.BuildVersion,
		stdin:        opts.Stdin,
		stdout:       opts.Stdout,
		stderr:       opts.Stderr,
		keymap:       input.DefaultKeyMap(),
	}
	if r.stdin == nil {
		r.stdin = os.Stdin
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}

	if err := r.loadConfig(opts.Config, opts.ConfigPath); err != nil {
		return nil, err
	}

	historyPath := opts.HistoryPath
	if historyPath == "" {
		historyPath = core.HistoryFile()
	}
	historyManager, err := history.NewManager(historyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	r.history = historyManager

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}
	env = append(env, "SHELLY_VERSION="+opts.BuildVersion)
	if exe, err := os.Executable(); err == nil {
		env = append(env, "SHELL="+exe)
	}

	builtins := executor.NewBuiltins(r.config, r.history, r.status, logger)
	r.executor, err = executor.NewREPLExecutor(executor.Options{
		Logger:       logger,
		Stdin:        r.stdin,
		Stdout:       r.stdout,
		Stderr:       r.stderr,
		Env:          env,
		ExecHandlers: []executor.ExecMiddleware{builtins.Middleware()},
		CallHandler:  builtins.CallHandler(),
	})
	if err != nil {
		r.history.Close()
		return nil, err
	}

	// Completion reads the session's PATH, so an unset PATH leaves only
	// the builtins.
	r.dispatcher = completion.NewDispatcher(completion.DispatcherOptions{
		MaxCandidates: r.config.Completion.MaxCandidates,
		MaxPathLength: r.config.Completion.MaxPathLength,
		Dedupe:        r.config.Completion.Dedupe,
		Cwd:           r.executor.GetPwd,
		LookupEnv:     r.executor.LookupEnv,
		Logger:        logger,
	})

	return r, nil
}

func (r *REPL) loadConfig(result *config.LoadResult, path string) error {
	if result == nil {
		loader := config.NewLoader(r.logger)

		var err error
		if path == "" {
			result, err = loader.LoadDefaultConfigPath()
		} else {
			result, err = loader.LoadFromFile(path)
		}
		if err != nil {
			return err
		}
	}

	for _, configErr := range result.Errors {
		fmt.Fprintln(r.stderr, styles.WARNING("shelly: config: "+configErr.Error()))
		r.logger.Warn("config error", zap.Error(configErr))
	}

	r.config = result.Config
	r.configPath = result.Path
	return nil
}

// Run reads and executes lines until the user exits or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.showWelcomeScreen()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := r.readLine(ctx)
		if err != nil {
			return err
		}

		switch result.Type {
		case input.ResultEOF:
			return nil
		case input.ResultInterrupt:
			r.lastExitCode = 130
			continue
		}

		if err := r.processCommand(ctx, result.Value); err != nil {
			return err
		}
		if r.executor.Exited() {
			return nil
		}
	}
}

// readLine runs the editor for one line.
func (r *REPL) readLine(ctx context.Context) (input.Result, error) {
	renderConfig := input.DefaultRenderConfig()
	renderConfig.PromptStyle = render.PromptStyle

	model := input.New(input.Config{
		Prompt:             r.getPrompt(),
		HistoryValues:      r.getHistoryValues(),
		CompletionProvider: r.dispatcher,
		KeyMap:             r.keymap,
		RenderConfig:       &renderConfig,
		Width:              r.terminalWidth(),
		Logger:             r.logger,
	})

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(r.stdin),
		tea.WithOutput(r.stdout),
	)
	final, err := program.Run()
	if err != nil {
		return input.Result{}, fmt.Errorf("line editor: %w", err)
	}

	m, ok := final.(input.Model)
	if !ok {
		return input.Result{}, errors.New("line editor: unexpected model")
	}
	return m.Result(), nil
}

// processCommand runs one line and records it in the history.
func (r *REPL) processCommand(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}

	entry, err := r.history.StartCommand(command, r.executor.GetPwd())
	if err != nil {
		r.logger.Warn("failed to record history", zap.Error(err))
	}

	start := timeNow()
	exitCode, execErr := r.executor.ExecuteBash(ctx, command)
	r.lastDuration = timeNow().Sub(start)
	r.lastExitCode = exitCode

	if execErr != nil {
		fmt.Fprintln(r.stderr, styles.ERROR("shelly: "+execErr.Error()))
		r.logger.Debug("command failed", zap.String("command", command), zap.Error(execErr))
	}

	if entry != nil {
		if _, err := r.history.FinishCommand(entry, exitCode); err != nil {
			r.logger.Warn("failed to finish history entry", zap.Error(err))
		}
	}

	return nil
}

func (r *REPL) status() executor.Status {
	return executor.Status{
		ExitCode: r.lastExitCode,
		Duration: r.lastDuration,
	}
}

// getPrompt returns the prompt, marked when the previous command failed.
func (r *REPL) getPrompt() string {
	if r.lastExitCode != 0 {
		return render.ExitSymbol(r.lastExitCode) + " " + r.config.Prompt
	}
	return r.config.Prompt
}

// getHistoryValues returns the latest commands, most recent first.
func (r *REPL) getHistoryValues() []string {
	values, err := r.history.Values(r.config.History.Limit)
	if err != nil {
		r.logger.Warn("failed to load history", zap.Error(err))
		return nil
	}
	return values
}

// ExitCode returns the exit code of the last command, which is the exit code
// of the session once Run returns.
func (r *REPL) ExitCode() int {
	return r.lastExitCode
}

// Config returns the effective configuration.
func (r *REPL) Config() *config.Config {
	return r.config
}

// Executor returns the shell session.
func (r *REPL) Executor() *executor.REPLExecutor {
	return r.executor
}

// History returns the history manager.
func (r *REPL) History() *history.Manager {
	return r.history
}

// Dispatcher returns the completion dispatcher installed in the editor.
func (r *REPL) Dispatcher() *completion.Dispatcher {
	return r.dispatcher
}

// Close releases the history database.
func (r *REPL) Close() error {
	return r.history.Close()
}
