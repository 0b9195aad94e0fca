package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action represents a keyboard action that can be triggered by key bindings.
type Action int

const (
	// ActionNone represents no action (used when a key doesn't match any binding).
	ActionNone Action = iota

	// Navigation actions
	ActionCharacterForward
	ActionCharacterBackward
	ActionWordForward
	ActionWordBackward
	ActionLineStart
	ActionLineEnd

	// Deletion actions
	ActionDeleteCharacterBackward
	ActionDeleteCharacterForward
	ActionDeleteWordBackward
	ActionDeleteWordForward
	ActionDeleteBeforeCursor
	ActionDeleteAfterCursor

	// History, or the completion listing when it is open
	ActionCursorUp
	ActionCursorDown

	// Completion actions
	ActionComplete
	ActionCompleteBackward

	// Special actions
	ActionSubmit
	ActionCancel
	ActionInterrupt
	ActionClearScreen
	ActionPaste
)

var actionNames = map[Action]string{
	ActionNone:                    "None",
	ActionCharacterForward:        "CharacterForward",
	ActionCharacterBackward:       "CharacterBackward",
	ActionWordForward:             "WordForward",
	ActionWordBackward:            "WordBackward",
	ActionLineStart:               "LineStart",
	ActionLineEnd:                 "LineEnd",
	ActionDeleteCharacterBackward: "DeleteCharacterBackward",
	ActionDeleteCharacterForward:  "DeleteCharacterForward",
	ActionDeleteWordBackward:      "DeleteWordBackward",
	ActionDeleteWordForward:       "DeleteWordForward",
	ActionDeleteBeforeCursor:      "DeleteBeforeCursor",
	ActionDeleteAfterCursor:       "DeleteAfterCursor",
	ActionCursorUp:                "CursorUp",
	ActionCursorDown:              "CursorDown",
	ActionComplete:                "Complete",
	ActionCompleteBackward:        "CompleteBackward",
	ActionSubmit:                  "Submit",
	ActionCancel:                  "Cancel",
	ActionInterrupt:               "Interrupt",
	ActionClearScreen:             "ClearScreen",
	ActionPaste:                   "Paste",
}

// String returns the string representation of an Action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// KeyBinding ties a bubbles key binding to the action it triggers.
type KeyBinding struct {
	Binding key.Binding
	Action  Action
}

// KeyMap holds the editor's key bindings. Bindings are matched in order,
// so an earlier binding wins when two share a key.
type KeyMap struct {
	bindings []KeyBinding
}

// NewKeyMap creates a KeyMap from bindings.
func NewKeyMap(bindings []KeyBinding) *KeyMap {
	return &KeyMap{bindings: bindings}
}

func bind(action Action, help string, keys ...string) KeyBinding {
	return KeyBinding{
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
		Action:  action,
	}
}

// DefaultKeyMap returns Emacs-style bindings.
func DefaultKeyMap() *KeyMap {
	return NewKeyMap([]KeyBinding{
		bind(ActionCharacterForward, "forward", "right", "ctrl+f"),
		bind(ActionCharacterBackward, "backward", "left", "ctrl+b"),
		bind(ActionWordForward, "next word", "alt+right", "ctrl+right", "alt+f"),
		bind(ActionWordBackward, "previous word", "alt+left", "ctrl+left", "alt+b"),
		bind(ActionLineStart, "start of line", "home", "ctrl+a"),
		bind(ActionLineEnd, "end of line", "end", "ctrl+e"),

		bind(ActionDeleteCharacterBackward, "delete backward", "backspace", "ctrl+h"),
		bind(ActionDeleteCharacterForward, "delete forward, exit on empty line", "delete", "ctrl+d"),
		bind(ActionDeleteWordBackward, "delete word backward", "ctrl+w", "alt+backspace"),
		bind(ActionDeleteWordForward, "delete word forward", "alt+d", "alt+delete"),
		bind(ActionDeleteBeforeCursor, "delete to start", "ctrl+u"),
		bind(ActionDeleteAfterCursor, "delete to end", "ctrl+k"),

		bind(ActionCursorUp, "previous command", "up", "ctrl+p"),
		bind(ActionCursorDown, "next command", "down", "ctrl+n"),

		bind(ActionComplete, "complete", "tab"),
		bind(ActionCompleteBackward, "previous alternative", "shift+tab"),

		bind(ActionSubmit, "run", "enter"),
		bind(ActionCancel, "undo completion", "esc"),
		bind(ActionInterrupt, "interrupt", "ctrl+c"),
		bind(ActionClearScreen, "clear screen", "ctrl+l"),
		bind(ActionPaste, "paste", "ctrl+v"),
	})
}

// Lookup finds the action for the given key message.
// Returns ActionNone if no binding matches.
func (km *KeyMap) Lookup(msg tea.KeyMsg) Action {
	for _, b := range km.bindings {
		if key.Matches(msg, b.Binding) {
			return b.Action
		}
	}
	return ActionNone
}

// SetKeys rebinds action to keys, replacing its current keys. An action
// without a binding gets a new one.
func (km *KeyMap) SetKeys(action Action, keys ...string) {
	for i := range km.bindings {
		if km.bindings[i].Action == action {
			km.bindings[i].Binding.SetKeys(keys...)
			return
		}
	}
	km.bindings = append(km.bindings, KeyBinding{
		Binding: key.NewBinding(key.WithKeys(keys...)),
		Action:  action,
	})
}

// Disable turns off every binding for action.
func (km *KeyMap) Disable(action Action) {
	for i := range km.bindings {
		if km.bindings[i].Action == action {
			km.bindings[i].Binding.SetEnabled(false)
		}
	}
}

// Bindings returns the key bindings, in match order.
func (km *KeyMap) Bindings() []key.Binding {
	out := make([]key.Binding, len(km.bindings))
	for i, b := range km.bindings {
		out[i] = b.Binding
	}
	return out
}
