package patterns

import (
	"sort"

	"condition-ner/internal/core/types"
)

type Match struct {
	Label string
	Start int
	End   int
}

// Matcher finds every token span matching any of its patterns.
type Matcher struct {
	patterns []*Pattern
}

func NewMatcher(patterns ...*Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

func (m *Matcher) Add(patterns ...*Pattern) {
	m.patterns = append(m.patterns, patterns...)
}

func (m *Matcher) Patterns() []*Pattern {
	return m.patterns
}

// Match returns all non-empty matches of all patterns starting at every
// token. Identical (label, start, end) triples are reported once, overlapping
// matches are kept. Results are sorted by start, then end, then label.
func (m *Matcher) Match(doc *types.Doc) []Match {
	seen := make(map[Match]struct{})
	var matches []Match

	for _, pattern := range m.patterns {
		for start := range doc.Tokens {
			for _, end := range matchEnds(pattern.Tokens, doc.Tokens, start) {
				if end == start {
					continue
				}
				match := Match{Label: pattern.Label, Start: start, End: end}
				if _, ok := seen[match]; ok {
					continue
				}
				seen[match] = struct{}{}
				matches = append(matches, match)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		if matches[i].End != matches[j].End {
			return matches[i].End < matches[j].End
		}
		return matches[i].Label < matches[j].Label
	})

	return matches
}

// matchEnds returns every token index at which specs, applied from token
// index pos, can finish.
func matchEnds(specs []TokenSpec, tokens []types.Token, pos int) []int {
	ends := make(map[int]struct{})
	var walk func(si, ti int)
	visited := make(map[[2]int]struct{})

	walk = func(si, ti int) {
		key := [2]int{si, ti}
		if _, ok := visited[key]; ok {
			return
		}
		visited[key] = struct{}{}

		if si == len(specs) {
			ends[ti] = struct{}{}
			return
		}

		spec := &specs[si]
		switch spec.Quantifier {
		case One, Negated:
			if ti < len(tokens) && spec.accepts(&tokens[ti]) {
				walk(si+1, ti+1)
			}
		case Optional:
			walk(si+1, ti)
			if ti < len(tokens) && spec.accepts(&tokens[ti]) {
				walk(si+1, ti+1)
			}
		case ZeroOrMore:
			walk(si+1, ti)
			if ti < len(tokens) && spec.accepts(&tokens[ti]) {
				walk(si, ti+1)
			}
		case OneOrMore:
			if ti < len(tokens) && spec.accepts(&tokens[ti]) {
				walk(si+1, ti+1)
				walk(si, ti+1)
			}
		}
	}
	walk(0, pos)

	out := make([]int, 0, len(ends))
	for end := range ends {
		out = append(out, end)
	}
	sort.Ints(out)
	return out
}
