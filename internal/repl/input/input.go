// Package input provides the line editor of the shelly REPL: a Bubble Tea
// component that handles text entry, cursor movement, key bindings, history
// navigation, and Tab completion through a CompletionProvider.
package input

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// ResultType indicates the type of result from the input component.
type ResultType int

const (
	// ResultNone indicates no result yet (still editing).
	ResultNone ResultType = iota
	// ResultSubmit indicates the user submitted the input (Enter).
	ResultSubmit
	// ResultInterrupt indicates the user interrupted (Ctrl+C).
	ResultInterrupt
	// ResultEOF indicates end of input (Ctrl+D on empty line).
	ResultEOF
)

// Result contains the outcome of an input session.
type Result struct {
	// Type indicates what action caused the input to complete.
	Type ResultType
	// Value is the input text (empty for interrupt/EOF).
	Value string
}

// Model is the Bubble Tea model of the line editor.
type Model struct {
	buffer *Buffer
	keymap *KeyMap
	prompt string

	// History navigation. Index 0 is the line being typed; 1 and up are
	// history entries, most recent first.
	historyValues     []string
	historyIndex      int
	savedCurrentInput string

	completion         *CompletionState
	completionProvider CompletionProvider
	helpText           string

	renderer *Renderer
	width    int

	result Result
	logger *zap.Logger
}

// Config holds configuration for creating a new Model.
type Config struct {
	// Prompt is the prompt string to display.
	Prompt string

	// HistoryValues is the list of previous commands, most recent first.
	HistoryValues []string

	// CompletionProvider provides Tab completion. Completion is disabled
	// when nil.
	CompletionProvider CompletionProvider

	// KeyMap provides key bindings. If nil, DefaultKeyMap is used.
	KeyMap *KeyMap

	// RenderConfig provides styling. If nil, DefaultRenderConfig is used.
	RenderConfig *RenderConfig

	// Width is the initial terminal width.
	Width int

	// Logger for debug output. If nil, a no-op logger is used.
	Logger *zap.Logger
}

// New creates a new input Model with the given configuration.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keymap := cfg.KeyMap
	if keymap == nil {
		keymap = DefaultKeyMap()
	}

	renderConfig := DefaultRenderConfig()
	if cfg.RenderConfig != nil {
		renderConfig = *cfg.RenderConfig
	}

	width := cfg.Width
	if width <= 0 {
		width = 80
	}

	return Model{
		buffer:             NewBuffer(),
		keymap:             keymap,
		prompt:             cfg.Prompt,
		historyValues:      cfg.HistoryValues,
		completion:         NewCompletionState(),
		completionProvider: cfg.CompletionProvider,
		renderer:           NewRenderer(renderConfig),
		width:              width,
		result:             Result{Type: ResultNone},
		logger:             logger,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. It handles all input events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case pasteMsg:
		m.completion.Reset()
		m.insert([]rune(string(msg)))
		return m, nil
	}

	return m, nil
}

// View implements tea.Model. It renders the input component.
func (m Model) View() string {
	if m.result.Type != ResultNone {
		if m.result.Type == ResultInterrupt {
			return ""
		}
		return m.renderer.RenderLine(m.prompt, m.buffer, false)
	}
	return m.renderer.RenderView(m.prompt, m.buffer, m.completion, m.helpText, m.width)
}

// Result returns the current result. Check Type != ResultNone to see if complete.
func (m Model) Result() Result {
	return m.result
}

// Value returns the current input text.
func (m Model) Value() string {
	return m.buffer.Text()
}

// SetValue sets the input text and moves cursor to end.
func (m *Model) SetValue(text string) {
	m.buffer.SetText(text)
	m.historyIndex = 0
}

// Buffer returns the underlying buffer.
func (m Model) Buffer() *Buffer {
	return m.buffer
}

// Completion returns the completion state.
func (m Model) Completion() *CompletionState {
	return m.completion
}

// HelpText returns the hint shown under the line.
func (m Model) HelpText() string {
	return m.helpText
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keymap.Lookup(msg)

	if m.completion.IsActive() {
		switch action {
		case ActionComplete:
			return m.handleComplete()
		case ActionCompleteBackward:
			return m.cycleCompletion(false)
		case ActionCursorDown:
			if m.completion.IsListing() {
				return m.cycleCompletion(true)
			}
		case ActionCursorUp:
			if m.completion.IsListing() {
				return m.cycleCompletion(false)
			}
		case ActionCancel:
			text, pos := m.completion.Cancel()
			m.buffer.SetText(text)
			m.buffer.SetPos(pos)
			m.updateHelp()
			return m, nil
		}
		// Anything else accepts the line as it stands.
		m.completion.Reset()
	}

	switch action {
	case ActionSubmit:
		m.result = Result{Type: ResultSubmit, Value: m.buffer.Text()}
		return m, tea.Quit

	case ActionInterrupt:
		m.result = Result{Type: ResultInterrupt}
		return m, tea.Quit

	case ActionDeleteCharacterForward:
		if m.buffer.Len() == 0 {
			m.result = Result{Type: ResultEOF}
			return m, tea.Quit
		}
		m.edit(func(b *Buffer) { b.DeleteCharForward() })

	case ActionClearScreen:
		return m, tea.ClearScreen

	case ActionPaste:
		return m, Paste

	case ActionComplete:
		return m.handleComplete()

	case ActionCharacterForward:
		m.buffer.SetPos(m.buffer.Pos() + 1)
	case ActionCharacterBackward:
		m.buffer.SetPos(m.buffer.Pos() - 1)
	case ActionWordForward:
		m.buffer.WordForward()
	case ActionWordBackward:
		m.buffer.WordBackward()
	case ActionLineStart:
		m.buffer.CursorStart()
	case ActionLineEnd:
		m.buffer.CursorEnd()

	case ActionDeleteCharacterBackward:
		m.edit(func(b *Buffer) { b.DeleteCharBackward() })
	case ActionDeleteWordBackward:
		m.edit((*Buffer).DeleteWordBackward)
	case ActionDeleteWordForward:
		m.edit((*Buffer).DeleteWordForward)
	case ActionDeleteBeforeCursor:
		m.edit((*Buffer).DeleteBeforeCursor)
	case ActionDeleteAfterCursor:
		m.edit((*Buffer).DeleteAfterCursor)

	case ActionCursorUp:
		m.historyPrevious()
	case ActionCursorDown:
		m.historyNext()

	case ActionNone:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.insert(msg.Runes)
		}
	}

	return m, nil
}

// edit applies a text change and refreshes what depends on the line.
func (m *Model) edit(change func(*Buffer)) {
	change(m.buffer)
	m.historyIndex = 0
	m.updateHelp()
}

func (m *Model) insert(runes []rune) {
	if len(runes) == 0 {
		return
	}
	m.edit(func(b *Buffer) { b.InsertRunes(sanitizeRunes(runes)) })
}

func (m *Model) updateHelp() {
	m.helpText = ""
	if m.completionProvider != nil {
		m.helpText = m.completionProvider.GetHelpInfo(m.buffer.Text(), m.buffer.Pos())
	}
}

func (m *Model) historyPrevious() {
	if m.historyIndex >= len(m.historyValues) {
		return
	}
	if m.historyIndex == 0 {
		m.savedCurrentInput = m.buffer.Text()
	}
	m.historyIndex++
	m.buffer.SetText(m.historyValues[m.historyIndex-1])
	m.updateHelp()
}

func (m *Model) historyNext() {
	if m.historyIndex == 0 {
		return
	}
	m.historyIndex--
	if m.historyIndex == 0 {
		m.buffer.SetText(m.savedCurrentInput)
	} else {
		m.buffer.SetText(m.historyValues[m.historyIndex-1])
	}
	m.updateHelp()
}

// handleComplete handles Tab. The first press fetches candidates and
// inserts what they have in common; a second press on an ambiguous word
// opens the listing; after that Tab cycles through the alternatives.
func (m Model) handleComplete() (tea.Model, tea.Cmd) {
	if m.completionProvider == nil {
		return m, nil
	}

	if m.completion.IsActive() {
		if !m.completion.IsListing() {
			m.completion.ShowListing()
			return m, nil
		}
		return m.cycleCompletion(true)
	}

	text := m.buffer.Text()
	pos := m.buffer.Pos()
	suggestions := m.completionProvider.GetCompletions(text, pos)
	m.logger.Debug("completion", zap.Int("candidates", len(suggestions)))
	if len(suggestions) == 0 {
		return m, nil
	}

	start, end := GetWordBoundary(text, pos)
	if len(suggestions) == 1 {
		m.buffer.Replace(start, end, suggestions[0])
		m.updateHelp()
		return m, nil
	}

	m.completion.Activate(suggestions, start, end, text, pos)
	word := string([]rune(text)[start:end])
	if common := CommonPrefix(suggestions); len(common) > len(word) {
		m.applyCompletion(common)
	}
	return m, nil
}

func (m Model) cycleCompletion(forward bool) (tea.Model, tea.Cmd) {
	m.completion.ShowListing()
	var suggestion string
	if forward {
		suggestion = m.completion.NextSuggestion()
	} else {
		suggestion = m.completion.PrevSuggestion()
	}
	m.applyCompletion(suggestion)
	return m, nil
}

// applyCompletion writes text over the word being completed.
func (m *Model) applyCompletion(text string) {
	start, end := m.completion.Span()
	m.buffer.Replace(start, end, text)
	m.completion.SetSpan(start, m.buffer.Pos())
	m.updateHelp()
}

// pasteMsg is sent when paste content is available.
type pasteMsg string

// Paste returns a command that reads from the clipboard.
func Paste() tea.Msg {
	str, err := clipboard.ReadAll()
	if err != nil {
		return nil
	}
	return pasteMsg(str)
}

// sanitizeRunes replaces tabs and newlines with spaces so pasted text stays
// on one line.
func sanitizeRunes(runes []rune) []rune {
	result := make([]rune, len(runes))
	for i, r := range runes {
		switch r {
		case '\t', '\n', '\r':
			result[i] = ' '
		default:
			result[i] = r
		}
	}
	return result
}
