package types

// Universal part-of-speech tags produced by annotators.
const (
	ADJ   = "ADJ"
	ADP   = "ADP"
	ADV   = "ADV"
	AUX   = "AUX"
	CCONJ = "CCONJ"
	DET   = "DET"
	INTJ  = "INTJ"
	NOUN  = "NOUN"
	NUM   = "NUM"
	PART  = "PART"
	PRON  = "PRON"
	PROPN = "PROPN"
	PUNCT = "PUNCT"
	SCONJ = "SCONJ"
	SYM   = "SYM"
	VERB  = "VERB"
	SPACE = "SPACE"
	X     = "X"
)

// Token offsets are rune offsets into Doc.Text, End is exclusive.
type Token struct {
	Text    string
	Start   int
	End     int
	Lemma   string
	Lower   string
	POS     string
	Tag     string
	IsSpace bool
	IsPunct bool
}

type Doc struct {
	Text   string
	Tokens []Token

	// SentenceStarts holds the index of the first token of every sentence.
	SentenceStarts []int

	Entities []Entity
}

func (d *Doc) Runes() []rune {
	return []rune(d.Text)
}

// SpanText returns the document text covered by tokens [start, end).
func (d *Doc) SpanText(start, end int) string {
	if start >= end || start < 0 || end > len(d.Tokens) {
		return ""
	}
	runes := d.Runes()
	return string(runes[d.Tokens[start].Start:d.Tokens[end-1].End])
}

// NewEntity builds an entity over tokens [start, end).
func (d *Doc) NewEntity(label string, start, end int) Entity {
	return CreateEntityWithRune(label, d.Runes(), d.Tokens[start].Start, d.Tokens[end-1].End, start, end)
}

func (d *Doc) EntitiesWithLabel(label string) []Entity {
	var out []Entity
	for _, ent := range d.Entities {
		if ent.Label == label {
			out = append(out, ent)
		}
	}
	return out
}

// Sentences returns [start, end) token ranges for every sentence.
func (d *Doc) Sentences() [][2]int {
	if len(d.Tokens) == 0 {
		return nil
	}
	if len(d.SentenceStarts) == 0 {
		return [][2]int{{0, len(d.Tokens)}}
	}
	sents := make([][2]int, 0, len(d.SentenceStarts))
	for i, start := range d.SentenceStarts {
		end := len(d.Tokens)
		if i+1 < len(d.SentenceStarts) {
			end = d.SentenceStarts[i+1]
		}
		sents = append(sents, [2]int{start, end})
	}
	return sents
}
