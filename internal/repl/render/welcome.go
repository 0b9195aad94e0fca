package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// WelcomeInfo contains information to display in the startup banner.
type WelcomeInfo struct {
	// Version is the shelly version string
	Version string
	// ConfigFile is the rc file that was loaded (empty if none)
	ConfigFile string
	// HistoryEntries is the number of commands in the history database
	HistoryEntries int64
	// LastCommandAt is when the most recent history entry was recorded
	LastCommandAt time.Time
}

// tips is the list of tips shown in the banner, one per day.
var tips = []string{
	"press Tab to complete commands and file paths",
	"press Tab twice to list every alternative",
	"press Esc to put back the word you were completing",
	"press Up/Down to navigate command history",
	"press Ctrl+A to jump to start of line",
	"press Ctrl+E to jump to end of line",
	"press Ctrl+V to paste from the clipboard",
	"type help to list the built-in commands",
	"use history 20 to see your last twenty commands",
	"use status to see the effective configuration",
	"set completion.dedupe: true in ~/.shellyrc.yml to hide duplicate commands",
	"set logLevel: debug in ~/.shellyrc.yml for troubleshooting",
	"press Ctrl+D on an empty line to exit",
}

var shellyLogo = []string{
	"     _        _ _       ",
	" ___| |_  ___| | |_  _  ",
	"(_-<| ' \\/ -_) | | || | ",
	"/__/|_||_\\___|_|_|\\_, | ",
	"                  |__/  ",
}

// getTipOfTheDay returns a tip based on the current date.
func getTipOfTheDay(now time.Time) string {
	if len(tips) == 0 {
		return ""
	}
	return tips[now.YearDay()%len(tips)]
}

// RenderWelcome renders the startup banner to the given writer: the logo on
// the left and session information on the right.
func RenderWelcome(w io.Writer, info WelcomeInfo, termWidth int) {
	renderWelcomeAt(w, info, termWidth, time.Now())
}

func renderWelcomeAt(w io.Writer, info WelcomeInfo, termWidth int, now time.Time) {
	titleStyle := lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	logoStyle := lipgloss.NewStyle().Foreground(ColorYellow)
	labelStyle := lipgloss.NewStyle().Foreground(ColorGray)
	valueStyle := lipgloss.NewStyle().Foreground(ColorYellow)
	dimStyle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	logoWidth := lipgloss.Width(shellyLogo[0])
	minGap := 4
	maxInfoWidth := 44

	var infoLines []string
	infoLines = append(infoLines, titleStyle.Render("A small interactive shell"))
	infoLines = append(infoLines, "")

	switch info.Version {
	case "":
	case "dev":
		infoLines = append(infoLines, labelStyle.Render("version: ")+dimStyle.Render("development"))
	default:
		infoLines = append(infoLines, labelStyle.Render("version: ")+valueStyle.Render(info.Version))
	}

	if info.ConfigFile != "" {
		infoLines = append(infoLines, labelStyle.Render("config:  ")+valueStyle.Render(info.ConfigFile))
	} else {
		infoLines = append(infoLines, labelStyle.Render("config:  ")+dimStyle.Render("defaults"))
	}

	if info.HistoryEntries > 0 {
		summary := humanize.Comma(info.HistoryEntries) + " commands"
		if !info.LastCommandAt.IsZero() {
			summary += ", last " + humanize.RelTime(info.LastCommandAt, now, "ago", "from now")
		}
		infoLines = append(infoLines, labelStyle.Render("history: ")+valueStyle.Render(summary))
	} else {
		infoLines = append(infoLines, labelStyle.Render("history: ")+dimStyle.Render("empty"))
	}

	tip := getTipOfTheDay(now)

	infoWidth := min(termWidth-logoWidth-minGap, maxInfoWidth)
	if infoWidth < 20 {
		for _, line := range infoLines {
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
		if tip != "" {
			fmt.Fprintln(w, dimStyle.Render(Truncate("tip: "+tip, termWidth)))
		}
		fmt.Fprintln(w)
		return
	}

	numLines := max(len(shellyLogo), len(infoLines))
	gap := strings.Repeat(" ", minGap)

	var output strings.Builder
	output.WriteString("\n")
	for i := 0; i < numLines; i++ {
		logoLine := strings.Repeat(" ", logoWidth)
		if i < len(shellyLogo) {
			logoLine = logoStyle.Render(shellyLogo[i])
		}
		var infoLine string
		if i < len(infoLines) {
			infoLine = infoLines[i]
		}
		output.WriteString(strings.TrimRight(logoLine+gap+infoLine, " ") + "\n")
	}

	output.WriteString("\n")
	if tip != "" {
		output.WriteString(dimStyle.Render(Truncate("tip: "+tip, termWidth)) + "\n")
	}
	output.WriteString("\n")

	fmt.Fprint(w, output.String())
}
