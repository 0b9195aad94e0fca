package completion

import (
	"unicode"

	"github.com/shelly-sh/shelly/internal/repl/completion/completers"
	"github.com/shelly-sh/shelly/internal/repl/input"
	"go.uber.org/zap"
)

// Source identifies which generator produced a completion result.
type Source int

const (
	// SourceCommands means the first word was completed against commands.
	SourceCommands Source = iota
	// SourceFiles means a later word was completed against directory entries.
	SourceFiles
)

func (s Source) String() string {
	switch s {
	case SourceCommands:
		return "commands"
	case SourceFiles:
		return "files"
	default:
		return "unknown"
	}
}

// Result is the outcome of one completion request.
type Result struct {
	// Candidates in generation order. Each string belongs to the caller.
	Candidates []string
	// Source is the generator that produced the candidates.
	Source Source
	// SkippedDirs counts search path directories that could not be opened.
	SkippedDirs int
	// SkippedPaths counts entries dropped for exceeding the path bound.
	SkippedPaths int
	// Truncated is set when a match was dropped at the candidate bound.
	Truncated bool
	// Stopped is set when command completion stopped at the candidate bound
	// with search path entries left unread.
	Stopped bool
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// Builtins overrides the builtin command names. Defaults to the
	// completers.BuiltinCompleter set.
	Builtins []string

	MaxCandidates int
	MaxPathLength int
	Dedupe        bool

	// Cwd returns the directory filename completion is relative to.
	Cwd func() string

	// LookupEnv reads the search path. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// Dispatcher routes completion requests: the first word on a line is
// completed against commands, every other word against filenames.
// It implements input.CompletionProvider.
type Dispatcher struct {
	builtins *completers.BuiltinCompleter
	opts     DispatcherOptions
	logger   *zap.Logger
}

// Ensure Dispatcher implements input.CompletionProvider.
var _ input.CompletionProvider = (*Dispatcher)(nil)

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	builtins := completers.NewBuiltinCompleter()
	if opts.Builtins == nil {
		opts.Builtins = builtins.Names()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		builtins: builtins,
		opts:     opts,
		logger:   logger,
	}
}

// Dispatch completes partial, the word spanning [start, end) of the line.
// A word starting at offset 0 is completed as a command; any other word as
// a filename. The generator is driven to exhaustion.
func (d *Dispatcher) Dispatch(partial string, start, end int) Result {
	if start == 0 {
		gen := NewCommandGenerator(CommandOptions{
			Builtins:      d.opts.Builtins,
			MaxCandidates: d.opts.MaxCandidates,
			MaxPathLength: d.opts.MaxPathLength,
			Dedupe:        d.opts.Dedupe,
			LookupEnv:     d.opts.LookupEnv,
			Logger:        d.logger,
		})
		candidates := input.CompletionMatches(partial, gen.Next)
		stats := gen.Stats()

		d.logger.Debug("command completion",
			zap.String("text", partial),
			zap.Int("candidates", len(candidates)),
			zap.Int("skippedDirs", stats.SkippedDirs),
			zap.Bool("truncated", stats.Truncated),
			zap.Bool("stopped", stats.Stopped))

		return Result{
			Candidates:   candidates,
			Source:       SourceCommands,
			SkippedDirs:  stats.SkippedDirs,
			SkippedPaths: stats.SkippedPaths,
			Truncated:    stats.Truncated,
			Stopped:      stats.Stopped,
		}
	}

	gen := &FilenameGenerator{
		Cwd:           d.opts.Cwd,
		MaxPathLength: d.opts.MaxPathLength,
	}
	defer gen.Close()

	candidates := input.CompletionMatches(partial, gen.Next)
	result := Result{
		Candidates: candidates,
		Source:     SourceFiles,
	}
	logFields := []zap.Field{
		zap.String("text", partial),
		zap.Int("candidates", len(candidates)),
	}
	if c := gen.Cursor(); c != nil {
		result.SkippedPaths = c.SkippedPaths()
		logFields = append(logFields,
			zap.String("prefix", c.Prefix()),
			zap.String("fragment", c.Fragment()),
			zap.Int("skippedPaths", c.SkippedPaths()))
	}

	d.logger.Debug("filename completion", logFields...)

	return result
}

// GetCompletions implements input.CompletionProvider. pos is a rune offset
// into line; the word before the cursor is completed.
func (d *Dispatcher) GetCompletions(line string, pos int) []string {
	word, start, end := wordBeforeCursor(line, pos)
	return d.Dispatch(word, start, end).Candidates
}

// GetHelpInfo implements input.CompletionProvider. It returns the usage of a
// builtin command when the first word on the line names one exactly.
func (d *Dispatcher) GetHelpInfo(line string, pos int) string {
	word, start, _ := wordBeforeCursor(line, pos)
	if start != 0 || word == "" {
		return ""
	}
	return d.builtins.GetHelp(word)
}

// wordBeforeCursor returns the word ending at rune offset pos and its
// start and end offsets in bytes.
func wordBeforeCursor(line string, pos int) (string, int, int) {
	runes := []rune(line)
	pos = max(0, min(pos, len(runes)))

	start := pos
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}

	byteStart := len(string(runes[:start]))
	byteEnd := len(string(runes[:pos]))
	return line[byteStart:byteEnd], byteStart, byteEnd
}
