package input

import (
	"unicode"
	"unicode/utf8"
)

// Generator produces completion candidates one at a time. State 0 starts a
// new request for text; each later call passes the next state. The second
// return value is false once there are no more candidates.
type Generator func(text string, state int) (string, bool)

// CompletionMatches drives gen from state 0 until it reports the end of the
// sequence and returns every candidate it produced, in order. It returns nil
// when there are none.
func CompletionMatches(text string, gen Generator) []string {
	var matches []string
	for state := 0; ; state++ {
		candidate, ok := gen(text, state)
		if !ok {
			return matches
		}
		matches = append(matches, candidate)
	}
}

// CompletionProvider is the interface that provides completion suggestions.
// The editor asks it for candidates when Tab is pressed.
type CompletionProvider interface {
	// GetCompletions returns the candidates for the word ending at rune
	// offset pos of line.
	GetCompletions(line string, pos int) []string

	// GetHelpInfo returns a one-line hint for the current input, or "".
	GetHelpInfo(line string, pos int) string
}

// CommonPrefix returns the longest prefix shared by every candidate. The
// result never ends in the middle of a UTF-8 sequence.
func CommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	prefix := candidates[0]
	for _, c := range candidates[1:] {
		n := 0
		for n < len(prefix) && n < len(c) && prefix[n] == c[n] {
			n++
		}
		prefix = prefix[:n]
	}

	first := candidates[0]
	n := len(prefix)
	for n > 0 && n < len(first) && !utf8.RuneStart(first[n]) {
		n--
	}
	return prefix[:n]
}

// GetWordBoundary returns the rune offsets of the word that ends at
// cursorPos: start is the first rune after the preceding whitespace.
func GetWordBoundary(text string, cursorPos int) (start, end int) {
	runes := []rune(text)
	end = max(0, min(cursorPos, len(runes)))
	start = end
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	return start, end
}

// CompletionState tracks one Tab completion session on the current line.
//
// The first Tab inserts the longest common prefix of the candidates. If the
// word is still ambiguous, the second Tab opens the listing, and further
// Tabs cycle through the alternatives, writing each into the line.
type CompletionState struct {
	suggestions []string
	selected    int
	listing     bool

	// word span being completed, in runes
	startPos int
	endPos   int

	// text and cursor before the session started, restored on cancel
	originalText string
	originalPos  int
}

// NewCompletionState creates an inactive CompletionState.
func NewCompletionState() *CompletionState {
	return &CompletionState{selected: -1}
}

// Reset ends the session.
func (cs *CompletionState) Reset() {
	*cs = CompletionState{selected: -1}
}

// Activate starts a session for suggestions completing the word in
// [startPos, endPos) of originalText.
func (cs *CompletionState) Activate(suggestions []string, startPos, endPos int, originalText string, originalPos int) {
	cs.suggestions = suggestions
	cs.selected = -1
	cs.listing = false
	cs.startPos = startPos
	cs.endPos = endPos
	cs.originalText = originalText
	cs.originalPos = originalPos
}

// IsActive reports whether a session is in progress.
func (cs *CompletionState) IsActive() bool {
	return len(cs.suggestions) > 0
}

// IsListing reports whether the alternatives listing is shown.
func (cs *CompletionState) IsListing() bool {
	return cs.listing
}

// ShowListing opens the alternatives listing.
func (cs *CompletionState) ShowListing() {
	if cs.IsActive() {
		cs.listing = true
	}
}

// Suggestions returns the candidates of the session.
func (cs *CompletionState) Suggestions() []string {
	return cs.suggestions
}

// Selected returns the index of the selected candidate, or -1.
func (cs *CompletionState) Selected() int {
	return cs.selected
}

// Span returns the rune offsets of the word being completed.
func (cs *CompletionState) Span() (start, end int) {
	return cs.startPos, cs.endPos
}

// SetSpan records where the word being completed now ends.
func (cs *CompletionState) SetSpan(start, end int) {
	cs.startPos = start
	cs.endPos = end
}

// NextSuggestion selects the next candidate, wrapping around.
func (cs *CompletionState) NextSuggestion() string {
	if !cs.IsActive() {
		return ""
	}
	cs.selected = (cs.selected + 1) % len(cs.suggestions)
	return cs.suggestions[cs.selected]
}

// PrevSuggestion selects the previous candidate, wrapping around.
func (cs *CompletionState) PrevSuggestion() string {
	if !cs.IsActive() {
		return ""
	}
	cs.selected--
	if cs.selected < 0 {
		cs.selected = len(cs.suggestions) - 1
	}
	return cs.suggestions[cs.selected]
}

// Cancel ends the session and returns the line and cursor it started from.
func (cs *CompletionState) Cancel() (string, int) {
	text, pos := cs.originalText, cs.originalPos
	cs.Reset()
	return text, pos
}
