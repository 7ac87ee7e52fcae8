package nlp

import (
	"strings"
	"unicode"

	"condition-ner/internal/core/types"
)

// Tokenizer splits English text the way spaCy's default English tokenizer
// does for the cases that matter for entity alignment: whitespace, leading
// and trailing punctuation, clitics and intra-word hyphens/slashes.
type Tokenizer struct {
	exceptions map[string][]int
	keepWhole  map[string]struct{}
}

const (
	prefixChars        = "\"'([{<*$£€#¿¡“‘«~`"
	closingSuffixChars = ",;:!?\"')]}>”’»…%"
	infixChars         = "-/:,–—+="
)

var defaultExceptions = map[string][]int{
	"cannot": {3, 3},
	"gonna":  {3, 2},
	"gotta":  {3, 2},
	"wanna":  {3, 2},
	"dunno":  {2, 1, 2},
}

var abbreviations = []string{
	"dr.", "mr.", "mrs.", "ms.", "st.", "vs.", "etc.", "e.g.", "i.e.", "approx.",
	"jan.", "feb.", "mar.", "apr.", "jun.", "jul.", "aug.", "sep.", "sept.", "oct.", "nov.", "dec.",
	"mg.", "no.", "inc.", "ltd.", "jr.", "sr.", "a.m.", "p.m.", "u.s.",
}

func NewTokenizer() *Tokenizer {
	keep := make(map[string]struct{}, len(abbreviations))
	for _, abbr := range abbreviations {
		keep[abbr] = struct{}{}
	}
	return &Tokenizer{exceptions: defaultExceptions, keepWhole: keep}
}

type piece struct {
	start, end int
}

// Tokenize returns tokens with rune offsets. Lemma, POS and Tag are left
// empty, they are filled in by the tagger.
func (t *Tokenizer) Tokenize(text string) []types.Token {
	runes := []rune(text)
	tokens := make([]types.Token, 0, len(runes)/4)

	emit := func(p piece) {
		s := string(runes[p.start:p.end])
		tokens = append(tokens, types.Token{
			Text:    s,
			Start:   p.start,
			End:     p.end,
			Lower:   strings.ToLower(s),
			IsSpace: isSpaceString(s),
			IsPunct: isPunctString(s),
		})
	}

	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			j := i
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start := i
			// a single space after a token is trailing whitespace, not a token
			if len(tokens) > 0 && runes[i] == ' ' {
				start++
			}
			if start < j {
				emit(piece{start, j})
			}
			i = j
			continue
		}

		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		for _, p := range t.splitChunk(runes, i, j) {
			emit(p)
		}
		i = j
	}

	return tokens
}

func (t *Tokenizer) splitChunk(runes []rune, s, e int) []piece {
	var prefixes, suffixes, middle []piece

	for s < e {
		word := strings.ToLower(string(runes[s:e]))
		if lens, ok := t.exceptions[word]; ok {
			pos := s
			for _, l := range lens {
				middle = append(middle, piece{pos, pos + l})
				pos += l
			}
			s = e
			break
		}
		if _, ok := t.keepWhole[word]; ok {
			break
		}
		if e-s > 1 && strings.ContainsRune(prefixChars, runes[s]) {
			prefixes = append(prefixes, piece{s, s + 1})
			s++
			continue
		}
		if n := t.suffixLen(runes[s:e]); n > 0 && n < e-s {
			suffixes = append(suffixes, piece{e - n, e})
			e -= n
			continue
		}
		break
	}

	if s < e {
		middle = append(middle, splitInfixes(runes, s, e)...)
	}

	out := make([]piece, 0, len(prefixes)+len(middle)+len(suffixes))
	out = append(out, prefixes...)
	out = append(out, middle...)
	for k := len(suffixes) - 1; k >= 0; k-- {
		out = append(out, suffixes[k])
	}
	return out
}

func (t *Tokenizer) suffixLen(w []rune) int {
	n := len(w)
	if n < 2 {
		return 0
	}
	lower := strings.ToLower(string(w))

	switch {
	case n > 3 && (strings.HasSuffix(lower, "n't") || strings.HasSuffix(lower, "n’t")):
		return 3
	case n > 3 && hasAnySuffix(lower, "'re", "'ve", "'ll", "’re", "’ve", "’ll"):
		return 3
	case n > 2 && hasAnySuffix(lower, "'s", "'m", "'d", "’s", "’m", "’d"):
		return 2
	}

	last := w[n-1]
	if strings.ContainsRune(closingSuffixChars, last) {
		return 1
	}

	if last == '.' {
		if n > 3 && strings.HasSuffix(lower, "...") {
			return 3
		}
		if _, ok := t.keepWhole[lower]; ok {
			return 0
		}
		// keep dotted acronyms such as "u.s." together
		if strings.ContainsRune(string(w[:n-1]), '.') {
			return 0
		}
		return 1
	}
	return 0
}

func splitInfixes(runes []rune, s, e int) []piece {
	var out []piece
	start := s
	for k := s + 1; k < e-1; k++ {
		if !strings.ContainsRune(infixChars, runes[k]) {
			continue
		}
		if !unicode.IsLetter(runes[k-1]) || !unicode.IsLetter(runes[k+1]) {
			continue
		}
		out = append(out, piece{start, k}, piece{k, k + 1})
		start = k + 1
	}
	return append(out, piece{start, e})
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func isSpaceString(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return len(s) > 0
}

func isPunctString(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return len(s) > 0
}
