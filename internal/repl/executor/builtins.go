package executor

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shelly-sh/shelly/internal/history"
	"github.com/shelly-sh/shelly/internal/repl/completion/completers"
	"github.com/shelly-sh/shelly/internal/repl/config"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/interp"
)

// typeCommand is what `type` is rewritten to, so that it reaches the exec
// handlers instead of the interpreter's own builtin.
const typeCommand = "shelly-type"

// Status describes the previous command, as reported by `status`.
type Status struct {
	ExitCode int
	Duration time.Duration
}

// Builtins implements the shelly built-in commands on top of the shell
// session: help, run, status, type and history. exit is the interpreter's.
type Builtins struct {
	Commands *completers.BuiltinCompleter
	History  *history.Manager
	Config   *config.Config

	// Status returns the outcome of the previous command.
	Status func() Status

	Logger *zap.Logger

	now func() time.Time
}

// NewBuiltins creates the built-in commands. history may be nil.
func NewBuiltins(cfg *config.Config, historyManager *history.Manager, status func() Status, logger *zap.Logger) *Builtins {
	if logger == nil {
		logger = zap.NewNop()
	}
	if status == nil {
		status = func() Status { return Status{} }
	}
	return &Builtins{
		Commands: completers.NewBuiltinCompleter(),
		History:  historyManager,
		Config:   cfg,
		Status:   status,
		Logger:   logger,
		now:      time.Now,
	}
}

// CallHandler rewrites the builtins that have to run inside the
// interpreter: `run script` becomes `source script`, and `type` is routed to
// the exec handlers so it knows the shelly builtins.
func (b *Builtins) CallHandler() interp.CallHandlerFunc {
	return func(ctx context.Context, args []string) ([]string, error) {
		if len(args) == 0 {
			return args, nil
		}
		switch args[0] {
		case "run":
			if len(args) > 1 {
				return append([]string{"source"}, args[1:]...), nil
			}
		case "type":
			return append([]string{typeCommand}, args[1:]...), nil
		}
		return args, nil
	}
}

// Middleware returns the exec middleware implementing the builtins.
func (b *Builtins) Middleware() ExecMiddleware {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			hc := interp.HandlerCtx(ctx)

			var code int
			switch args[0] {
			case "help":
				code = b.help(hc.Stdout, hc.Stderr, args[1:])
			case "run":
				fmt.Fprintln(hc.Stderr, "run: usage: "+usageOf(b.Commands, "run"))
				code = 2
			case "status":
				code = b.status(hc.Stdout, hc.Stderr)
			case "history":
				code = b.history(hc.Stdout, hc.Stderr, args[1:])
			case typeCommand:
				code = b.typeOf(hc, args[1:])
			default:
				return next(ctx, args)
			}

			b.Logger.Debug("builtin", zap.Strings("args", args), zap.Int("exitCode", code))
			if code != 0 {
				return interp.NewExitStatus(uint8(code))
			}
			return nil
		}
	}
}

func (b *Builtins) help(stdout, stderr io.Writer, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, b.Commands.GeneralHelp())
		return 0
	}

	code := 0
	for _, name := range args {
		text := b.Commands.GetHelp(name)
		if text == "" {
			fmt.Fprintf(stderr, "help: no help topics match `%s'\n", name)
			code = 1
			continue
		}
		fmt.Fprintln(stdout, text)
	}
	return code
}

func (b *Builtins) status(stdout, stderr io.Writer) int {
	last := b.Status()
	fmt.Fprintf(stdout, "last exit code: %d\n", last.ExitCode)
	fmt.Fprintf(stdout, "last duration: %s\n", last.Duration.Round(time.Millisecond))

	if b.History != nil {
		if n, err := b.History.Count(); err == nil {
			fmt.Fprintf(stdout, "history: %s commands\n", humanize.Comma(n))
		}
	}

	if b.Config != nil {
		out, err := b.Config.YAML()
		if err != nil {
			fmt.Fprintf(stderr, "status: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "config:")
		fmt.Fprint(stdout, indent(out))
	}
	return 0
}

// history prints the latest entries, `history n` the latest n, and
// `history -c` clears the history.
func (b *Builtins) history(stdout, stderr io.Writer, args []string) int {
	if b.History == nil {
		fmt.Fprintln(stderr, "history: history is not available")
		return 1
	}

	limit := 1000
	if b.Config != nil {
		limit = b.Config.History.Limit
	}

	if len(args) > 0 {
		if args[0] == "-c" {
			if err := b.History.ResetHistory(); err != nil {
				fmt.Fprintf(stderr, "history: %v\n", err)
				return 1
			}
			return 0
		}

		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "history: %s: numeric argument required\n", args[0])
			return 2
		}
		if n >= 0 {
			limit = min(limit, n)
		}
	}

	if limit == 0 {
		return 0
	}

	total, err := b.History.Count()
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	entries, err := b.History.GetRecentEntries("", limit)
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}

	now := b.now()
	first := int(total) - len(entries) + 1
	for i, entry := range entries {
		when := humanize.RelTime(entry.CreatedAt, now, "ago", "from now")
		fmt.Fprintf(stdout, "%5d  %-16s %s\n", first+i, when, entry.Command)
	}
	return 0
}

// typeOf describes how each name would be resolved.
func (b *Builtins) typeOf(hc interp.HandlerContext, names []string) int {
	code := 0
	for _, name := range names {
		if _, ok := b.Commands.Lookup(name); ok {
			fmt.Fprintf(hc.Stdout, "%s is a shelly builtin\n", name)
			continue
		}
		if isShellBuiltin(name) {
			fmt.Fprintf(hc.Stdout, "%s is a shell builtin\n", name)
			continue
		}
		if path, err := interp.LookPathDir(hc.Dir, hc.Env, name); err == nil {
			fmt.Fprintf(hc.Stdout, "%s is %s\n", name, path)
			continue
		}
		fmt.Fprintf(hc.Stderr, "%s: not found\n", name)
		code = 1
	}
	return code
}

// isShellBuiltin reports whether the interpreter implements name itself.
func isShellBuiltin(name string) bool {
	switch name {
	case "true", ":", "false", "exit", "set", "shift", "unset",
		"echo", "printf", "break", "continue", "pwd", "cd",
		"wait", "builtin", "trap", "type", "source", ".", "command",
		"dirs", "pushd", "popd", "umask", "alias", "unalias",
		"fg", "bg", "getopts", "eval", "test", "[", "exec",
		"return", "read", "mapfile", "readarray", "shopt":
		return true
	}
	return false
}

func usageOf(c *completers.BuiltinCompleter, name string) string {
	cmd, _ := c.Lookup(name)
	return cmd.Usage
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	for i, line := range lines {
		if line != "" && line != "\n" {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "")
}
