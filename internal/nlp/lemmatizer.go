package nlp

import (
	"strings"

	"condition-ner/internal/core/types"
)

// Lemmatizer reduces a word to its dictionary form given its coarse POS.
type Lemmatizer interface {
	Lemma(word, pos string) string
}

// RuleLemmatizer is an English lemmatizer built from exception tables and
// suffix rules. Lemmas are lowercase, except for proper nouns.
type RuleLemmatizer struct {
	exceptions map[string]map[string]string
	invariant  map[string]struct{}
}

var verbExceptions = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"'s": "be", "'m": "be", "'re": "be",
	"has": "have", "had": "have", "having": "have", "'ve": "have",
	"does": "do", "did": "do", "done": "do", "doing": "do",
	"went": "go", "gone": "go", "goes": "go",
	"got": "get", "gotten": "get", "getting": "get",
	"felt": "feel", "took": "take", "taken": "take", "made": "make", "said": "say", "told": "tell",
	"thought": "think", "knew": "know", "known": "know", "saw": "see", "seen": "see", "came": "come",
	"gave": "give", "given": "give", "found": "find", "kept": "keep", "left": "leave", "began": "begin",
	"begun": "begin", "ate": "eat", "eaten": "eat", "slept": "sleep", "became": "become",
	"brought": "bring", "bought": "buy", "caught": "catch", "fell": "fall", "ran": "run", "sat": "sit",
	"stood": "stand", "wrote": "write", "written": "write", "ca": "can", "wo": "will", "'ll": "will",
	"'d": "would", "hurt": "hurt", "put": "put", "let": "let",
}

var nounExceptions = map[string]string{
	"children": "child", "men": "man", "women": "woman", "feet": "foot", "teeth": "tooth",
	"mice": "mouse", "people": "person", "meds": "med", "lives": "life", "wives": "wife",
	"knives": "knife", "leaves": "leaf", "diagnoses": "diagnosis",
}

var adjExceptions = map[string]string{
	"better": "good", "best": "good", "worse": "bad", "worst": "bad",
}

var otherExceptions = map[string]string{
	"n't": "not", "'s": "'s",
}

// words whose trailing "s" is not a plural marker
var invariantNouns = `diabetes herpes measles mumps rabies scabies shingles news series species aids
	pcos ibs lupus virus sinus status bus gas corpus arthritis endometriosis psoriasis sclerosis
	osteoporosis tuberculosis fibrosis stenosis cirrhosis gonorrhea chlamydia means physics mathematics`

func NewRuleLemmatizer() *RuleLemmatizer {
	inv := map[string]struct{}{}
	for _, w := range strings.Fields(invariantNouns) {
		inv[w] = struct{}{}
	}
	return &RuleLemmatizer{
		exceptions: map[string]map[string]string{
			types.VERB: verbExceptions,
			types.AUX:  verbExceptions,
			types.NOUN: nounExceptions,
			types.ADJ:  adjExceptions,
			types.PART: otherExceptions,
		},
		invariant: inv,
	}
}

func (l *RuleLemmatizer) Lemma(word, pos string) string {
	if pos == types.PROPN {
		return word
	}
	lower := strings.ToLower(word)
	if table, ok := l.exceptions[pos]; ok {
		if lemma, ok := table[lower]; ok {
			return lemma
		}
	}

	switch pos {
	case types.NOUN:
		return l.singular(lower)
	case types.VERB:
		return verbLemma(lower)
	}
	return lower
}

func (l *RuleLemmatizer) singular(w string) string {
	if _, ok := l.invariant[w]; ok {
		return w
	}
	n := len(w)
	switch {
	case n <= 3:
		return w
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y"
	case hasAnySuffix(w, "sses", "ches", "shes", "xes", "zes"):
		return w[:n-2]
	case strings.HasSuffix(w, "s") && !hasAnySuffix(w, "ss", "us", "is", "os"):
		return w[:n-1]
	}
	return w
}

// stems that need a trailing "e" restored once -ed/-ing is removed
var silentEStems = []string{
	"at", "iz", "ag", "ak", "ok", "ur", "iv", "av", "ov", "ib", "dg", "nc", "bl", "pl", "tl", "gl", "kl", "dl", "fl",
	"us", "uc", "os", "yz", "ys", "rs", "ns", "ar", "id", "ut", "ir", "ud", "ip",
}

func verbLemma(w string) string {
	n := len(w)
	var stem string
	switch {
	case strings.HasSuffix(w, "ied") && n > 4:
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "ing") && n > 5:
		stem = w[:n-3]
	case strings.HasSuffix(w, "ed") && n > 4:
		stem = w[:n-2]
	case hasAnySuffix(w, "sses", "ches", "shes", "xes", "oes") && n > 4:
		return w[:n-2]
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && n > 3:
		return w[:n-1]
	default:
		return w
	}

	if m := len(stem); m > 2 && stem[m-1] == stem[m-2] && !strings.ContainsRune("lsz", rune(stem[m-1])) && !isVowel(stem[m-1]) {
		return stem[:m-1]
	}
	if hasAnySuffix(stem, silentEStems...) {
		return stem + "e"
	}
	return stem
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}
