package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cristianoliveira/questterm/internal/colors"
	"github.com/cristianoliveira/questterm/internal/errors"
)

func TestHeaderShowsConsoleAndDepth(t *testing.T) {
	out := Header(HeaderState{Console: "blueberry", Depth: 3, Width: 80})
	assert.Contains(t, out, "questterm · blueberry · ››")
}

func TestFooter(t *testing.T) {
	tests := []struct {
		name     string
		state    FooterState
		contains []string
		excludes []string
	}{
		{
			name:     "root",
			state:    FooterState{Width: 120},
			contains: []string{"tab: complete", "ctrl+c: quit"},
			excludes: []string{"esc: back"},
		},
		{
			name:     "nested with completions",
			state:    FooterState{Nested: true, Completions: []string{"cat a.md", "cat b.md"}, Width: 120},
			contains: []string{"esc: back", "cat a.md  cat b.md"},
		},
		{
			name:     "busy",
			state:    FooterState{Busy: true, Status: "console closed", StatusType: errors.MessageTypeWarning, Width: 120},
			contains: []string{"running…", "console closed"},
			excludes: []string{"tab: complete"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Footer(tt.state)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "abcdefgh", truncate("abcdefgh", 0))
}

func TestAnsiColorNumber(t *testing.T) {
	assert.Equal(t, "34", ansiColorNumber(colors.Blue))
	assert.Equal(t, "", ansiColorNumber("x"))
}
