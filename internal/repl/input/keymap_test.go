package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionNone, "None"},
		{ActionLineStart, "LineStart"},
		{ActionDeleteWordBackward, "DeleteWordBackward"},
		{ActionComplete, "Complete"},
		{ActionCompleteBackward, "CompleteBackward"},
		{ActionPaste, "Paste"},
		{Action(999), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("Action(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}

func TestDefaultKeyMapLookup(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected Action
	}{
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, ActionComplete},
		{"shift+tab", tea.KeyMsg{Type: tea.KeyShiftTab}, ActionCompleteBackward},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, ActionSubmit},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, ActionCancel},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, ActionLineStart},
		{"ctrl+d", tea.KeyMsg{Type: tea.KeyCtrlD}, ActionDeleteCharacterForward},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, ActionCursorUp},
		{"alt+b", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: true}, ActionWordBackward},
		{"plain rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.Lookup(tt.msg); got != tt.expected {
				t.Errorf("Lookup(%s) = %s, want %s", tt.msg, got, tt.expected)
			}
		})
	}
}

func TestKeyMapSetKeys(t *testing.T) {
	km := DefaultKeyMap()
	km.SetKeys(ActionComplete, "ctrl+@")

	if got := km.Lookup(tea.KeyMsg{Type: tea.KeyCtrlAt}); got != ActionComplete {
		t.Errorf("expected ctrl+@ to complete, got %s", got)
	}

	km.SetKeys(ActionNone+100, "f5")
	if got := km.Lookup(tea.KeyMsg{Type: tea.KeyF5}); got != ActionNone+100 {
		t.Errorf("expected new binding for f5, got %s", got)
	}
}

func TestKeyMapDisable(t *testing.T) {
	km := DefaultKeyMap()
	km.Disable(ActionPaste)

	if got := km.Lookup(tea.KeyMsg{Type: tea.KeyCtrlV}); got != ActionNone {
		t.Errorf("expected disabled paste binding, got %s", got)
	}
}

func TestKeyMapBindingsHaveHelp(t *testing.T) {
	for _, b := range DefaultKeyMap().Bindings() {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Errorf("binding %v has no help", b.Keys())
		}
	}
}
