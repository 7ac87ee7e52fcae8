package nlp

import (
	"strings"
	"unicode"

	"condition-ner/internal/core/types"
)

// Tagger assigns UPOS and Penn Treebank tags from a lexicon, suffix rules
// and a handful of left/right context corrections.
type Tagger struct {
	lexicon Lexicon
}

func NewTagger(lexicon Lexicon) *Tagger {
	return &Tagger{lexicon: lexicon}
}

// Tag fills POS and Tag for every token. sentenceStart reports whether the
// token at index i begins a sentence.
func (t *Tagger) Tag(tokens []types.Token, sentenceStart func(i int) bool) {
	for i := range tokens {
		tokens[i].POS, tokens[i].Tag = t.tagWord(tokens[i], sentenceStart(i))
	}
	t.applyContext(tokens)
}

func (t *Tagger) tagWord(tok types.Token, sentStart bool) (string, string) {
	if tok.IsSpace {
		return types.SPACE, "_SP"
	}
	if pos, tag, ok := t.lexicon.Lookup(tok.Lower); ok {
		return pos, tag
	}
	if tok.IsPunct {
		return types.PUNCT, punctTag(tok.Text)
	}
	if isSymbolString(tok.Text) {
		if tok.Text == "$" {
			return types.SYM, "$"
		}
		return types.SYM, "SYM"
	}
	if isNumber(tok.Text) {
		return types.NUM, "CD"
	}

	runes := []rune(tok.Text)
	if unicode.IsUpper(runes[0]) && !sentStart {
		if strings.HasSuffix(tok.Lower, "s") && !isAllUpper(tok.Text) && len(runes) > 3 {
			return types.PROPN, "NNPS"
		}
		return types.PROPN, "NNP"
	}
	if isAllUpper(tok.Text) && len(runes) > 1 {
		return types.PROPN, "NNP"
	}

	w := tok.Lower
	n := len(runes)
	switch {
	case n > 4 && strings.HasSuffix(w, "ly"):
		return types.ADV, "RB"
	case n > 4 && strings.HasSuffix(w, "ing"):
		return types.VERB, "VBG"
	case n > 3 && strings.HasSuffix(w, "ed"):
		return types.VERB, "VBD"
	case n > 4 && hasAnySuffix(w, "ous", "ful", "ive", "able", "ible", "less", "ish", "ical", "ial"):
		return types.ADJ, "JJ"
	case n > 5 && hasAnySuffix(w, "ic", "al"):
		return types.ADJ, "JJ"
	case n > 3 && strings.HasSuffix(w, "s") && !hasAnySuffix(w, "ss", "us", "is"):
		return types.NOUN, "NNS"
	}
	return types.NOUN, "NN"
}

func (t *Tagger) applyContext(tokens []types.Token) {
	next := func(i int) *types.Token {
		for j := i + 1; j < len(tokens); j++ {
			if !tokens[j].IsSpace {
				return &tokens[j]
			}
		}
		return nil
	}
	prev := func(i int) *types.Token {
		for j := i - 1; j >= 0; j-- {
			if !tokens[j].IsSpace {
				return &tokens[j]
			}
		}
		return nil
	}

	for i := range tokens {
		tok := &tokens[i]
		p, n := prev(i), next(i)

		switch tok.Lower {
		case "to":
			if n != nil && n.POS == types.VERB && n.Tag == "VB" {
				tok.POS, tok.Tag = types.PART, "TO"
			} else if n != nil && (n.POS == types.NOUN || n.POS == types.PROPN || n.POS == types.DET || n.POS == types.PRON || n.POS == types.NUM) {
				tok.POS, tok.Tag = types.ADP, "IN"
			}
		case "'s", "’s":
			if p != nil && (p.POS == types.NOUN || p.POS == types.PROPN) && n != nil && (n.POS == types.NOUN || n.POS == types.ADJ) {
				tok.POS, tok.Tag = types.PART, "POS"
			}
		case "have", "has", "had", "'ve":
			if n != nil && (n.Tag == "VBN" || n.Tag == "VBD" || n.Lower == "been") {
				tok.POS = types.AUX
			}
		case "that":
			if n == nil || (n.POS != types.NOUN && n.POS != types.ADJ) {
				tok.POS, tok.Tag = types.SCONJ, "IN"
			}
		}

		if p == nil {
			continue
		}
		// after modals, "to" and "do", a default noun reading is usually a bare verb
		if tok.POS == types.NOUN && tok.Tag == "NN" && !t.known(tok.Lower) {
			if p.Tag == "MD" || p.Tag == "TO" || (p.POS == types.AUX && p.Lower == "do") || (p.POS == types.PRON && p.Tag == "PRP") {
				tok.POS, tok.Tag = types.VERB, "VBP"
				if p.Tag == "MD" || p.Tag == "TO" {
					tok.Tag = "VB"
				}
			}
		}
		// a verb form ending in -ed after be/have is a participle
		if tok.POS == types.VERB && tok.Tag == "VBD" && (p.POS == types.AUX) {
			tok.Tag = "VBN"
		}
		// determiners and possessives are followed by adjectives or nouns, not verbs
		if tok.POS == types.VERB && (tok.Tag == "VBD" || tok.Tag == "VBG") && (p.POS == types.DET || p.POS == types.ADJ) &&
			n != nil && (n.POS == types.NOUN || n.POS == types.PROPN) {
			tok.POS, tok.Tag = types.ADJ, "JJ"
		}
	}
}

func (t *Tagger) known(lower string) bool {
	_, _, ok := t.lexicon.Lookup(lower)
	return ok
}

func punctTag(s string) string {
	switch s {
	case ".", "!", "?", "...", "…":
		return "."
	case ",":
		return ","
	case ":", ";", "-", "--", "–", "—":
		return ":"
	case "(", "[", "{":
		return "-LRB-"
	case ")", "]", "}":
		return "-RRB-"
	case "\"", "“", "`", "'", "‘":
		return "``"
	case "”", "’":
		return "''"
	}
	return "NFP"
}

func isSymbolString(s string) bool {
	for _, r := range s {
		if !unicode.IsSymbol(r) {
			return false
		}
	}
	return len(s) > 0
}

func isNumber(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '/' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}

func isAllUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 0
}
