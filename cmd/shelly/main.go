package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shelly-sh/shelly/internal/core"
	"github.com/shelly-sh/shelly/internal/repl"
	"github.com/shelly-sh/shelly/internal/repl/config"
	"github.com/shelly-sh/shelly/internal/styles"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var BUILD_VERSION = "dev"

var command = flag.String("c", "", "run a command")
var loginShell = flag.Bool("l", false, "run as a login shell")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpTitle = "shelly - A small interactive shell with tab completion"

const helpText = `
USAGE:
  shelly [options] [script...]

MODES:
  shelly                  Start an interactive shell
  shelly -l               Start as a login shell
  shelly script.sh        Execute a shell script file
  shelly -c "command"     Execute a shell command

Press Tab at the prompt to complete command names and filenames.
Type help inside the shell to list the built-in commands.

OPTIONS:
`

// runOptions carries what run needs from main, so tests can drive it.
type runOptions struct {
	Command string
	Login   bool
	Args    []string

	Config      *config.LoadResult
	HistoryPath string
	Logger      *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Println(styles.BANNER(helpTitle))
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	cfg, err := config.NewLoader(nil).LoadDefaultConfigPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR("shelly: "+err.Error()))
		os.Exit(1)
	}

	// Initialize the logger
	logger, err := initializeLogger(cfg.Config.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("-------- new shelly session --------", zap.Any("args", os.Args))

	exitCode, err := run(context.Background(), runOptions{
		Command:     *command,
		Login:       *loginShell || strings.HasPrefix(os.Args[0], "-"),
		Args:        flag.Args(),
		Config:      cfg,
		HistoryPath: core.HistoryFile(),
		Logger:      logger,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	})
	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.ERROR("shelly: "+err.Error()))
		if exitCode == 0 {
			exitCode = 1
		}
	}

	logger.Sync()
	os.Exit(exitCode)
}

// run executes a command, scripts, standard input or the interactive shell
// and returns the exit code of the session.
func run(ctx context.Context, opts runOptions) (int, error) {
	r, err := repl.NewREPL(repl.Options{
		Config:       opts.Config,
		HistoryPath:  opts.HistoryPath,
		Logger:       opts.Logger,
		BuildVersion: BUILD_VERSION,
		Stdin:        opts.Stdin,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
	})
	if err != nil {
		return 1, fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer r.Close()

	exec := r.Executor()

	if opts.Login {
		loadProfiles(ctx, r, opts.Stderr)
	}

	// shelly -c "echo hello"
	if opts.Command != "" {
		return exec.ExecuteBash(ctx, opts.Command)
	}

	// shelly
	if len(opts.Args) == 0 {
		if isTerminal(opts.Stdin) {
			if err := r.Run(ctx); err != nil {
				return 1, err
			}
			return r.ExitCode(), nil
		}
		return exec.RunScriptFromReader(ctx, opts.Stdin, "shelly")
	}

	// shelly script.sh ...
	code := 0
	for _, path := range opts.Args {
		code, err = exec.RunScript(ctx, path)
		if err != nil || exec.Exited() {
			return code, err
		}
	}
	return code, nil
}

// loadProfiles sources the login scripts that exist and are not empty.
func loadProfiles(ctx context.Context, r *repl.REPL, stderr io.Writer) {
	profiles := []string{
		"/etc/profile",
		filepath.Join(core.HomeDir(), ".shelly_profile"),
	}
	for _, profile := range profiles {
		if stat, err := os.Stat(profile); err != nil || stat.Size() == 0 {
			continue
		}
		if _, err := r.Executor().RunScript(ctx, profile); err != nil {
			fmt.Fprintln(stderr, styles.WARNING(fmt.Sprintf("failed to load %s: %v", profile, err)))
		}
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func initializeLogger(level string) (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		logLevel.SetLevel(parsed)
	}
	if BUILD_VERSION == "dev" {
		logLevel.SetLevel(zap.DebugLevel)
	}

	// Logs only go to the file, the terminal belongs to the line editor.
	// Use `tail -f ~/.shelly/shelly.log` to follow them.
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	return loggerConfig.Build()
}
