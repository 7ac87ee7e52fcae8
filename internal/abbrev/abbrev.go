// Package abbrev detects abbreviation definitions such as
// "irritable bowel syndrome (IBS)" with the Schwartz & Hearst algorithm and
// reports every occurrence of each defined short form.
package abbrev

import (
	"sort"
	"strings"
	"unicode"

	"condition-ner/internal/core/types"
)

const (
	maxParenWords     = 8
	longFormInParens  = 3
	minShortWordLen   = 2
	maxShortWordLen   = 9
	minShortAlphaFrac = 0.5
)

type Span struct {
	Start int
	End   int
	Text  string
}

type Abbreviation struct {
	Short Span
	Long  Span
}

type candidate struct {
	long  [2]int
	short [2]int
}

// Detect returns every occurrence of every short form defined in doc, grouped
// by definition in order of appearance.
func Detect(doc *types.Doc) []Abbreviation {
	var (
		longs       [][2]int
		shortsByDef = map[[2]int]map[[2]int]struct{}{}
		seenLong    = map[string]struct{}{}
		seenShort   = map[string]struct{}{}
		definitions = map[[2]int][2]int{}
	)

	for _, c := range parenCandidates(doc) {
		long, ok := findLongForm(doc, c.long, c.short)
		if !ok {
			continue
		}
		longText := doc.SpanText(long[0], long[1])
		shortText := doc.SpanText(c.short[0], c.short[1])
		if _, dup := seenLong[longText]; dup {
			continue
		}
		if _, dup := seenShort[shortText]; dup {
			continue
		}
		seenLong[longText] = struct{}{}
		seenShort[shortText] = struct{}{}

		longs = append(longs, long)
		shortsByDef[long] = map[[2]int]struct{}{c.short: {}}
		definitions[c.short] = long
	}

	// every other occurrence of a defined short form, matched on exact token text
	for short, long := range definitions {
		words := make([]string, 0, short[1]-short[0])
		for _, tok := range doc.Tokens[short[0]:short[1]] {
			words = append(words, tok.Text)
		}
		for start := 0; start+len(words) <= len(doc.Tokens); start++ {
			if tokensEqual(doc.Tokens[start:start+len(words)], words) {
				shortsByDef[long][[2]int{start, start + len(words)}] = struct{}{}
			}
		}
	}

	var out []Abbreviation
	for _, long := range longs {
		shorts := make([][2]int, 0, len(shortsByDef[long]))
		for s := range shortsByDef[long] {
			shorts = append(shorts, s)
		}
		sort.Slice(shorts, func(i, j int) bool { return shorts[i][0] < shorts[j][0] })

		longSpan := makeSpan(doc, long)
		for _, s := range shorts {
			out = append(out, Abbreviation{Short: makeSpan(doc, s), Long: longSpan})
		}
	}
	return out
}

// ShortForms returns the distinct lowercased short forms in abbreviations.
func ShortForms(abbreviations []Abbreviation) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, a := range abbreviations {
		lower := strings.ToLower(a.Short.Text)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	return out
}

// parenCandidates pairs each "(" with the nearest following ")". Short
// parenthesised text is a short form preceded by its long form; longer text
// is a long form following its short form.
func parenCandidates(doc *types.Doc) []candidate {
	var out []candidate
	for open := range doc.Tokens {
		if doc.Tokens[open].Text != "(" {
			continue
		}
		closing := -1
		for j := open + 1; j < len(doc.Tokens); j++ {
			if doc.Tokens[j].Text == ")" {
				closing = j
				break
			}
		}
		if closing < 0 {
			continue
		}

		start, end := open+1, closing
		if end-start < 1 || end-start > maxParenWords || start == 1 {
			continue
		}

		var c candidate
		if end-start > longFormInParens {
			c = candidate{short: [2]int{start - 2, start - 1}, long: [2]int{start, end}}
		} else {
			c = candidate{short: [2]int{start, end}}
			abbrLen := 0
			for _, tok := range doc.Tokens[start:end] {
				abbrLen += len([]rune(tok.Text))
			}
			maxWords := min(abbrLen+5, abbrLen*2)
			c.long = [2]int{max(start-maxWords-1, 0), start - 1}
		}

		if shortFormFilter(doc, c.short) {
			out = append(out, c)
		}
	}
	return out
}

func shortFormFilter(doc *types.Doc, span [2]int) bool {
	for _, tok := range doc.Tokens[span[0]:span[1]] {
		n := len([]rune(tok.Text))
		if n < minShortWordLen || n > maxShortWordLen {
			return false
		}
	}

	text := []rune(doc.SpanText(span[0], span[1]))
	if len(text) == 0 || !unicode.IsLetter(text[0]) {
		return false
	}
	alpha := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	return float64(alpha)/float64(len(text)) >= minShortAlphaFrac
}

// findLongForm matches the characters of the short form right to left against
// the long form candidate. The first short form character must start a word.
func findLongForm(doc *types.Doc, longCand, shortCand [2]int) ([2]int, bool) {
	if longCand[0] >= longCand[1] {
		return [2]int{}, false
	}

	longForm := []rune(strings.ToLower(joinTokens(doc, longCand)))
	shortForm := []rune(strings.ToLower(joinTokens(doc, shortCand)))

	li := len(longForm) - 1
	si := len(shortForm) - 1
	for si >= 0 {
		c := shortForm[si]
		if !isAlnum(c) {
			si--
			continue
		}
		for (li >= 0 && longForm[li] != c) || (si == 0 && li > 0 && isAlnum(longForm[li-1])) {
			li--
		}
		if li < 0 {
			return [2]int{}, false
		}
		li--
		si--
	}
	li = max(li+1, 0)

	wordLengths := 0
	for i := longCand[0]; i < longCand[1]; i++ {
		wordLengths += len([]rune(doc.Tokens[i].Text)) + 1
		if wordLengths > li {
			return [2]int{i, longCand[1]}, true
		}
	}
	return longCand, true
}

func joinTokens(doc *types.Doc, span [2]int) string {
	words := make([]string, 0, span[1]-span[0])
	for _, tok := range doc.Tokens[span[0]:span[1]] {
		words = append(words, tok.Text)
	}
	return strings.Join(words, " ")
}

func tokensEqual(tokens []types.Token, words []string) bool {
	for i, tok := range tokens {
		if tok.Text != words[i] {
			return false
		}
	}
	return true
}

func makeSpan(doc *types.Doc, span [2]int) Span {
	return Span{Start: span[0], End: span[1], Text: doc.SpanText(span[0], span[1])}
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
