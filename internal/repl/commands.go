package repl

import (
	"os"

	"golang.org/x/term"

	"github.com/shelly-sh/shelly/internal/repl/render"
)

// terminalWidth returns the width of the output terminal, or 80 when the
// output is not a terminal.
func (r *REPL) terminalWidth() int {
	if f, ok := r.stdout.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// showWelcomeScreen displays the welcome screen with configuration info.
func (r *REPL) showWelcomeScreen() {
	info := render.WelcomeInfo{
		Version:    r.buildVersion,
		ConfigFile: r.configPath,
	}

	if n, err := r.history.Count(); err == nil {
		info.HistoryEntries = n
	}
	if last, err := r.history.LastEntry(); err == nil && last != nil {
		info.LastCommandAt = last.CreatedAt
	}

	render.RenderWelcome(r.stdout, info, r.terminalWidth())
}
