package input

import (
	"slices"
	"unicode"
)

// Buffer holds the line being edited as runes plus a cursor offset.
// All positions are rune offsets.
type Buffer struct {
	runes []rune
	pos   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferWithText creates a buffer holding text with the cursor at its end.
func NewBufferWithText(text string) *Buffer {
	b := &Buffer{}
	b.SetText(text)
	return b
}

// Text returns the current line.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// Len returns the length of the line in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Pos returns the cursor position.
func (b *Buffer) Pos() int {
	return b.pos
}

// SetText replaces the line and moves the cursor to its end.
func (b *Buffer) SetText(text string) {
	b.runes = []rune(text)
	b.pos = len(b.runes)
}

// SetPos moves the cursor, clamped to the line.
func (b *Buffer) SetPos(pos int) {
	b.pos = max(0, min(pos, len(b.runes)))
}

// Clear empties the line.
func (b *Buffer) Clear() {
	b.runes = nil
	b.pos = 0
}

// CursorStart moves the cursor to the start of the line.
func (b *Buffer) CursorStart() {
	b.pos = 0
}

// CursorEnd moves the cursor to the end of the line.
func (b *Buffer) CursorEnd() {
	b.pos = len(b.runes)
}

// Insert inserts text at the cursor and moves the cursor past it.
func (b *Buffer) Insert(text string) {
	b.InsertRunes([]rune(text))
}

// InsertRunes inserts runes at the cursor and moves the cursor past them.
func (b *Buffer) InsertRunes(runes []rune) {
	b.runes = slices.Insert(b.runes, b.pos, runes...)
	b.pos += len(runes)
}

// Replace swaps the runes in [start, end) for text and leaves the cursor
// at the end of the inserted text.
func (b *Buffer) Replace(start, end int, text string) {
	start = max(0, min(start, len(b.runes)))
	end = max(start, min(end, len(b.runes)))
	b.runes = slices.Delete(b.runes, start, end)
	b.pos = start
	b.Insert(text)
}

// DeleteCharBackward deletes the rune before the cursor. It reports whether
// anything was deleted.
func (b *Buffer) DeleteCharBackward() bool {
	if b.pos == 0 {
		return false
	}
	b.runes = slices.Delete(b.runes, b.pos-1, b.pos)
	b.pos--
	return true
}

// DeleteCharForward deletes the rune under the cursor. It reports whether
// anything was deleted.
func (b *Buffer) DeleteCharForward() bool {
	if b.pos >= len(b.runes) {
		return false
	}
	b.runes = slices.Delete(b.runes, b.pos, b.pos+1)
	return true
}

// DeleteBeforeCursor deletes everything before the cursor.
func (b *Buffer) DeleteBeforeCursor() {
	b.runes = slices.Delete(b.runes, 0, b.pos)
	b.pos = 0
}

// DeleteAfterCursor deletes everything from the cursor on.
func (b *Buffer) DeleteAfterCursor() {
	b.runes = b.runes[:b.pos]
}

// DeleteWordBackward deletes the word before the cursor along with any
// whitespace between it and the cursor.
func (b *Buffer) DeleteWordBackward() {
	end := b.pos
	b.WordBackward()
	b.runes = slices.Delete(b.runes, b.pos, end)
}

// DeleteWordForward deletes from the cursor to the end of the next word.
func (b *Buffer) DeleteWordForward() {
	start := b.pos
	b.WordForward()
	b.runes = slices.Delete(b.runes, start, b.pos)
	b.pos = start
}

// WordBackward moves the cursor to the start of the previous word.
func (b *Buffer) WordBackward() {
	i := b.pos
	for i > 0 && unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	b.pos = i
}

// WordForward moves the cursor to the end of the next word.
func (b *Buffer) WordForward() {
	i := b.pos
	for i < len(b.runes) && unicode.IsSpace(b.runes[i]) {
		i++
	}
	for i < len(b.runes) && !unicode.IsSpace(b.runes[i]) {
		i++
	}
	b.pos = i
}

// TextBeforeCursor returns the text before the cursor.
func (b *Buffer) TextBeforeCursor() string {
	return string(b.runes[:b.pos])
}

// TextAfterCursor returns the text from the cursor on.
func (b *Buffer) TextAfterCursor() string {
	return string(b.runes[b.pos:])
}
