package engine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type match struct {
	value    string
	distance int
}

// Autocomplete returns the completions for current, best first.
// Without arguments it ranks command names against the whole token;
// otherwise it ranks the command's completer values against the last
// token and prefixes each result with the command name.
func (e *Engine) Autocomplete(current string) []string {
	parsed := Parse(current)
	if parsed == nil {
		return []string{}
	}

	if parsed.Arguments == nil {
		return Rank(parsed.Command, e.Commands())
	}

	var candidates []string
	if parsed.Command == helpCommand {
		candidates = e.Commands()
	} else {
		e.mu.RLock()
		ent, ok := e.commands[parsed.Command]
		e.mu.RUnlock()
		if !ok || ent.completer == nil {
			return []string{}
		}
		candidates = ent.completer.Complete(parsed.Arguments)
	}

	ranked := Rank(parsed.LastArgument, candidates)
	for i, value := range ranked {
		ranked[i] = parsed.Command + " " + value
	}
	return ranked
}

// Rank keeps the candidates whose Levenshtein distance to query is below
// half their length, or which start with query, sorted by distance.
// Ties keep the candidate order.
func Rank(query string, candidates []string) []string {
	matches := make([]match, 0, len(candidates))
	for _, cand := range candidates {
		d := fuzzy.LevenshteinDistance(query, cand)
		if float64(d) < float64(utf8.RuneCountInString(cand))/2 || strings.HasPrefix(cand, query) {
			matches = append(matches, match{value: cand, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}
