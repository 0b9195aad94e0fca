package input

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shelly-sh/shelly/internal/repl/render"
)

// RenderConfig holds styling configuration for the editor.
type RenderConfig struct {
	// PromptStyle is the style applied to the prompt string.
	PromptStyle lipgloss.Style

	// TextStyle is the style applied to the input text.
	TextStyle lipgloss.Style

	// CursorStyle is the style applied to the cursor character.
	CursorStyle lipgloss.Style

	// HintStyle is used for the help line under the input.
	HintStyle lipgloss.Style
}

// DefaultRenderConfig returns a RenderConfig with sensible default styles.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PromptStyle: lipgloss.NewStyle(),
		TextStyle:   lipgloss.NewStyle(),
		CursorStyle: lipgloss.NewStyle().Reverse(true),
		HintStyle:   render.DimStyle,
	}
}

// Renderer draws the editor.
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RenderConfig) *Renderer {
	return &Renderer{config: config}
}

// RenderLine renders the prompt and the line, with the cursor drawn when
// focused is set.
func (r *Renderer) RenderLine(prompt string, buffer *Buffer, focused bool) string {
	var b strings.Builder
	b.WriteString(r.config.PromptStyle.Render(prompt))

	if !focused {
		b.WriteString(r.config.TextStyle.Render(buffer.Text()))
		return b.String()
	}

	before := buffer.TextBeforeCursor()
	after := []rune(buffer.TextAfterCursor())
	b.WriteString(r.config.TextStyle.Render(before))
	if len(after) == 0 {
		b.WriteString(r.config.CursorStyle.Render(" "))
		return b.String()
	}
	b.WriteString(r.config.CursorStyle.Render(string(after[0])))
	b.WriteString(r.config.TextStyle.Render(string(after[1:])))
	return b.String()
}

// RenderView renders the whole editor: the line, then either the
// completion listing or the help hint.
func (r *Renderer) RenderView(prompt string, buffer *Buffer, completion *CompletionState, help string, width int) string {
	lines := []string{r.RenderLine(prompt, buffer, true)}

	switch {
	case completion != nil && completion.IsListing():
		lines = append(lines, render.Columns(completion.Suggestions(), width, completion.Selected()))
	case help != "":
		// Align the hint with the text, not the prompt.
		indent := min(render.PromptWidth(prompt), width/2)
		hint := r.config.HintStyle.Render(render.Truncate(help, width-indent))
		lines = append(lines, strings.Repeat(" ", indent)+hint)
	}

	return strings.Join(lines, "\n")
}
