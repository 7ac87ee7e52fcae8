package hftokenizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"condition-ner/internal/core/types"

	"github.com/daulet/tokenizers"
)

const DefaultPretrained = "Qwen/Qwen2.5-0.5B"

// Annotator tokenizes with a HuggingFace tokenizer and regroups subword
// pieces into words. It produces token boundaries only: POS is X and the
// lemma is the lowercased text.
type Annotator struct {
	mu        sync.Mutex
	tokenizer *tokenizers.Tokenizer
}

// Load reads a tokenizer.json from path, or fetches a pretrained tokenizer
// by name when path is not a file. An empty path loads DefaultPretrained.
func Load(path string) (*Annotator, error) {
	var (
		tk  *tokenizers.Tokenizer
		err error
	)
	if path == "" {
		path = DefaultPretrained
	}
	if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
		tk, err = tokenizers.FromFile(path)
	} else {
		tk, err = tokenizers.FromPretrained(path)
	}
	if err != nil {
		return nil, fmt.Errorf("tokenizer load: %w", err)
	}
	return &Annotator{tokenizer: tk}, nil
}

func (a *Annotator) Annotate(ctx context.Context, text string) (*types.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.tokenizer == nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("tokenizer has been released")
	}
	enc := a.tokenizer.EncodeWithOptions(text, false, tokenizers.WithReturnAllAttributes())
	a.mu.Unlock()

	offsets := make([][2]int, len(enc.Offsets))
	for i, off := range enc.Offsets {
		offsets[i] = [2]int{int(off[0]), int(off[1])}
	}
	return DocFromByteOffsets(text, offsets), nil
}

func (a *Annotator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tokenizer != nil {
		if err := a.tokenizer.Close(); err != nil {
			slog.Warn("error closing tokenizer", "error", err)
		}
		a.tokenizer = nil
	}
}

// DocFromByteOffsets groups subword byte offsets into word tokens. A new word
// starts after a gap, at whitespace, or where punctuation meets a word
// character.
func DocFromByteOffsets(text string, offsets [][2]int) *types.Doc {
	var words []byteSpan

	for _, off := range offsets {
		start, end := off[0], off[1]
		if start >= end || end > len(text) {
			continue
		}
		for start < end {
			r, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
		if start >= end {
			continue
		}

		if n := len(words); n > 0 && words[n-1].end == start && samePunctClass(text, words[n-1], start) {
			words[n-1].end = end
			continue
		}
		words = append(words, byteSpan{start, end})
	}

	doc := &types.Doc{Text: text, Tokens: make([]types.Token, 0, len(words))}
	for _, w := range words {
		s := text[w.start:w.end]
		lower := strings.ToLower(s)
		isPunct := strings.TrimFunc(s, unicode.IsPunct) == ""
		pos := types.X
		if isPunct {
			pos = types.PUNCT
		}
		doc.Tokens = append(doc.Tokens, types.Token{
			Text:    s,
			Start:   utf8.RuneCountInString(text[:w.start]),
			End:     utf8.RuneCountInString(text[:w.end]),
			Lemma:   lower,
			Lower:   lower,
			POS:     pos,
			IsPunct: isPunct,
		})
	}
	if len(doc.Tokens) > 0 {
		doc.SentenceStarts = []int{0}
	}
	return doc
}

type byteSpan struct{ start, end int }

func samePunctClass(text string, prev byteSpan, next int) bool {
	last, _ := utf8.DecodeLastRuneInString(text[prev.start:prev.end])
	first, _ := utf8.DecodeRuneInString(text[next:])
	return unicode.IsPunct(last) == unicode.IsPunct(first)
}
