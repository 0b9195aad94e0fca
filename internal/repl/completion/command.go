package completion

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
)

// readDirBatch is how many entries are read from a PATH directory at a time.
const readDirBatch = 128

// CommandOptions configures a CommandGenerator.
type CommandOptions struct {
	// Builtins are matched before anything on the search path, in order.
	Builtins []string

	// MaxCandidates bounds a request. Defaults to DefaultMaxCandidates.
	MaxCandidates int

	// MaxPathLength bounds the absolute paths built for permission checks.
	// Defaults to DefaultMaxPathLength.
	MaxPathLength int

	// Dedupe keeps only the first occurrence of each name. Off by default:
	// a name found both as a builtin and on PATH, or in two PATH
	// directories, is listed once per occurrence.
	Dedupe bool

	// LookupEnv reads the search path. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// ScanStats describes how the last command completion request went.
type ScanStats struct {
	// Candidates is the number of candidates collected.
	Candidates int
	// DirsScanned counts search path directories that were opened.
	DirsScanned int
	// SkippedDirs counts search path directories that could not be opened.
	SkippedDirs int
	// SkippedPaths counts entries whose full path exceeded MaxPathLength.
	SkippedPaths int
	// Truncated is set when a matching candidate was dropped because the
	// store was full.
	Truncated bool
	// Stopped is set when the scan ended at the candidate bound while
	// search path directories or entries were still unread. They may or may
	// not have held more matches.
	Stopped bool
}

// CommandGenerator completes the first word of a line against the builtin
// command names and the executables found on the search path.
type CommandGenerator struct {
	builtins      []string
	store         *Store
	maxPathLength int
	lookupEnv     func(string) (string, bool)
	logger        *zap.Logger
	stats         ScanStats
}

// NewCommandGenerator creates a new CommandGenerator.
func NewCommandGenerator(opts CommandOptions) *CommandGenerator {
	store := NewStore(opts.MaxCandidates)
	if opts.Dedupe {
		store = NewUniqueStore(opts.MaxCandidates)
	}

	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	builtins := make([]string, len(opts.Builtins))
	copy(builtins, opts.Builtins)

	return &CommandGenerator{
		builtins:      builtins,
		store:         store,
		maxPathLength: opts.MaxPathLength,
		lookupEnv:     lookupEnv,
		logger:        logger,
	}
}

// Next returns the candidate for the given state. State 0 starts a new
// request and collects every match for query; later states hand out the
// collected candidates in order. The second return value is false once the
// sequence is exhausted.
func (g *CommandGenerator) Next(query string, state int) (string, bool) {
	if state == 0 {
		g.collect(query)
	}
	return g.store.Get(state)
}

// Stats returns the statistics of the last request.
func (g *CommandGenerator) Stats() ScanStats {
	return g.stats
}

func (g *CommandGenerator) collect(query string) {
	g.store.Reset()
	g.stats = ScanStats{}

	for _, name := range g.builtins {
		if hasBytePrefix(name, query) {
			g.store.Add(name)
		}
	}

	pathEnv, ok := g.lookupEnv("PATH")
	if !ok || pathEnv == "" {
		g.logger.Debug("no search path, completing builtins only")
	}

	for _, dir := range splitSearchPath(pathEnv) {
		if g.store.Full() {
			g.stats.Stopped = true
			break
		}
		g.scanDir(dir, query)
	}

	g.stats.Candidates = g.store.Count()
	g.stats.Truncated = g.store.Truncated()
	if g.stats.Truncated || g.stats.Stopped {
		g.logger.Debug("command completion reached the candidate bound",
			zap.String("query", query),
			zap.Int("limit", g.store.Limit()),
			zap.Bool("truncated", g.stats.Truncated),
			zap.Bool("stopped", g.stats.Stopped))
	}
}

// scanDir adds the executables in dir whose names start with query.
func (g *CommandGenerator) scanDir(dir string, query string) {
	d, err := openDir(dir)
	if err != nil {
		g.stats.SkippedDirs++
		g.logger.Debug("skipping search path directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	defer d.Close()
	g.stats.DirsScanned++

	for {
		entries, err := d.ReadDir(readDirBatch)
		for _, entry := range entries {
			if g.store.Full() {
				g.stats.Stopped = true
				return
			}
			g.consider(dir, entry.Name(), entry.Type(), query)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				g.logger.Debug("error reading search path directory", zap.String("dir", dir), zap.Error(err))
			}
			return
		}
		if len(entries) == 0 {
			return
		}
		if g.store.Full() {
			// One more entry tells a finished directory from an unread one.
			rest, _ := d.ReadDir(1)
			g.stats.Stopped = len(rest) > 0
			return
		}
	}
}

func (g *CommandGenerator) consider(dir, name string, t os.FileMode, query string) {
	if !isCandidateType(t) || !hasBytePrefix(name, query) {
		return
	}

	fullPath, ok := joinPath(dir, name, g.maxPathLength)
	if !ok {
		g.stats.SkippedPaths++
		return
	}
	if isExecutable(fullPath) {
		g.store.Add(name)
	}
}
