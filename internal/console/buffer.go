package console

import (
	"fmt"
	"strings"
	"sync"
)

// Buffer is the text being edited in an editable context.
type Buffer struct {
	mu       sync.Mutex
	lines    []string
	saved    string
	onChange func(content string)
}

// NewBuffer starts a buffer holding initial, which counts as saved.
func NewBuffer(initial string, onChange func(string)) *Buffer {
	b := &Buffer{saved: initial, onChange: onChange}
	b.lines = split(initial)
	return b
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Content returns the buffer text.
func (b *Buffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// Lines returns a copy of the buffer lines.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// SetContent replaces the whole text.
func (b *Buffer) SetContent(s string) {
	b.mu.Lock()
	b.lines = split(s)
	b.mu.Unlock()
	b.changed()
}

// Append adds text as a new last line.
func (b *Buffer) Append(text string) {
	b.mu.Lock()
	b.lines = append(b.lines, text)
	b.mu.Unlock()
	b.changed()
}

// Delete removes line n, counting from 1.
func (b *Buffer) Delete(n int) error {
	b.mu.Lock()
	if n < 1 || n > len(b.lines) {
		count := len(b.lines)
		b.mu.Unlock()
		return fmt.Errorf("line %d out of range 1-%d", n, count)
	}
	b.lines = append(b.lines[:n-1], b.lines[n:]...)
	b.mu.Unlock()
	b.changed()
	return nil
}

// Modified reports whether the text differs from the last saved state.
func (b *Buffer) Modified() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n") != b.saved
}

// MarkSaved records the current text as saved.
func (b *Buffer) MarkSaved() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saved = strings.Join(b.lines, "\n")
}

func (b *Buffer) changed() {
	if b.onChange != nil {
		b.onChange(b.Content())
	}
}
