// Package render holds the terminal styling and layout helpers of the REPL.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

// ANSI color codes
const (
	ColorCyan   = lipgloss.Color("12") // Prompt
	ColorYellow = lipgloss.Color("11") // Highlights, banner
	ColorGreen  = lipgloss.Color("10") // Success indicator
	ColorRed    = lipgloss.Color("9")  // Error indicator
	ColorGray   = lipgloss.Color("8")  // Dim/secondary (hints, meta info)
)

// Symbols
const (
	SymbolSuccess       = "✓"
	SymbolError         = "✗"
	SymbolSystemMessage = "→"
	SymbolTruncated     = "…"
)

// Style definitions using Lip Gloss
var (
	// PromptStyle is used for the default prompt
	PromptStyle = lipgloss.NewStyle().Foreground(ColorCyan)

	// SelectedStyle marks the selected completion alternative
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)

	// SuccessStyle is used for success indicators
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// ErrorStyle is used for error indicators
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

	// DimStyle is used for secondary information like hints and timing
	DimStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// SystemMessageStyle is used for system/status messages
	SystemMessageStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// StyledSymbol returns a symbol with appropriate styling applied
func StyledSymbol(symbol string) string {
	switch symbol {
	case SymbolSuccess:
		return SuccessStyle.Render(symbol)
	case SymbolError:
		return ErrorStyle.Render(symbol)
	case SymbolSystemMessage, SymbolTruncated:
		return SystemMessageStyle.Render(symbol)
	default:
		return symbol
	}
}

// ExitSymbol returns the styled success or error symbol for an exit code.
func ExitSymbol(exitCode int) string {
	if exitCode == 0 {
		return StyledSymbol(SymbolSuccess)
	}
	return StyledSymbol(SymbolError)
}
