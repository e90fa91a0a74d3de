package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newMatchEngine() *Engine {
	e := New(nil)
	files := CompleterFunc(func([]string) []string { return []string{"notes.md", "intro.md", "connect.ts"} })
	e.Register(Command{Name: "cat"}, HandlerFunc(noop), files)
	e.Register(Command{Name: "ls"}, HandlerFunc(noop), nil)
	e.Register(Command{Name: "less"}, HandlerFunc(noop), files)
	return e
}

func TestAutocompleteEmpty(t *testing.T) {
	assert.Equal(t, []string{}, newMatchEngine().Autocomplete(""))
	assert.Equal(t, []string{}, newMatchEngine().Autocomplete("  "))
}

func TestAutocompletePrefixWins(t *testing.T) {
	got := newMatchEngine().Autocomplete("c")
	assert.Equal(t, "cat", got[0])
}

func TestAutocompleteCommandNames(t *testing.T) {
	got := newMatchEngine().Autocomplete("l")
	assert.Equal(t, []string{"ls", "less"}, got)
}

func TestAutocompleteArgumentsArePrefixed(t *testing.T) {
	got := newMatchEngine().Autocomplete("cat not")
	assert.Equal(t, []string{"cat notes.md"}, got)
}

func TestAutocompleteWithoutCompleter(t *testing.T) {
	assert.Equal(t, []string{}, newMatchEngine().Autocomplete("ls x"))
	assert.Equal(t, []string{}, newMatchEngine().Autocomplete("unknown x"))
}

func TestAutocompleteHelpArgument(t *testing.T) {
	got := newMatchEngine().Autocomplete("help ca")
	assert.Equal(t, []string{"help cat"}, got)
}

func TestRank(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates []string
		want       []string
	}{
		{name: "distance filter", query: "cta", candidates: []string{"cat", "vi"}, want: []string{}},
		{name: "close match kept", query: "lesx", candidates: []string{"less"}, want: []string{"less"}},
		{name: "sorted by distance", query: "ca", candidates: []string{"cats", "cat"}, want: []string{"cat", "cats"}},
		{name: "stable on ties", query: "", candidates: []string{"b", "a"}, want: []string{"b", "a"}},
		{name: "prefix regardless of distance", query: "con", candidates: []string{"connect.ts"}, want: []string{"connect.ts"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.query, tt.candidates))
		})
	}
}
