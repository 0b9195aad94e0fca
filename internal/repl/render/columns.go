package render

import (
	"strings"

	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"
	"github.com/samber/lo"
)

// columnGap is the number of spaces between listing columns.
const columnGap = 2

// Columns lays out items in as many columns as fit in width, filling each
// column top to bottom before moving right. The item at index selected is
// highlighted; pass -1 for none. Items wider than width are clipped.
func Columns(items []string, width, selected int) string {
	if len(items) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	cells := lo.Map(items, func(item string, _ int) string {
		return Truncate(item, width)
	})
	widths := lo.Map(cells, func(cell string, _ int) int {
		return uniseg.StringWidth(cell)
	})
	colWidth := lo.Max(widths) + columnGap

	cols := max(1, (width+columnGap)/colWidth)
	rows := (len(cells) + cols - 1) / cols

	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(cells) {
				break
			}
			if i == selected {
				b.WriteString(SelectedStyle.Render(cells[i]))
			} else {
				b.WriteString(cells[i])
			}
			if next := i + rows; c < cols-1 && next < len(cells) {
				b.WriteString(strings.Repeat(" ", colWidth-widths[i]))
			}
		}
	}
	return b.String()
}

// Truncate clips s to width terminal cells, marking the cut with an
// ellipsis. Strings that already fit are returned unchanged.
func Truncate(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), SymbolTruncated)
}

// PromptWidth returns the number of cells the last line of a prompt takes
// up, ignoring ANSI escape sequences.
func PromptWidth(prompt string) int {
	if i := strings.LastIndexByte(prompt, '\n'); i >= 0 {
		prompt = prompt[i+1:]
	}
	return ansi.PrintableRuneWidth(prompt)
}
