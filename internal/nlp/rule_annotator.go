package nlp

import (
	"context"
	"strings"

	"condition-ner/internal/core/types"
)

// RuleAnnotator is the built-in English pipeline: tokenizer, sentence
// splitter, lexicon tagger and rule lemmatizer.
type RuleAnnotator struct {
	tokenizer  *Tokenizer
	tagger     *Tagger
	lemmatizer *RuleLemmatizer
}

func NewRuleAnnotator() *RuleAnnotator {
	return NewRuleAnnotatorWithLexicon(NewEnglishLexicon())
}

func NewRuleAnnotatorWithLexicon(lexicon Lexicon) *RuleAnnotator {
	return &RuleAnnotator{
		tokenizer:  NewTokenizer(),
		tagger:     NewTagger(lexicon),
		lemmatizer: NewRuleLemmatizer(),
	}
}

func (a *RuleAnnotator) Annotate(ctx context.Context, text string) (*types.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.AnnotateText(text), nil
}

func (a *RuleAnnotator) AnnotateText(text string) *types.Doc {
	tokens := a.tokenizer.Tokenize(text)
	starts := SentenceStarts(tokens)

	isStart := make(map[int]bool, len(starts))
	for _, s := range starts {
		isStart[s] = true
	}
	a.tagger.Tag(tokens, func(i int) bool { return isStart[i] })

	for i := range tokens {
		tokens[i].Lemma = a.lemmatizer.Lemma(tokens[i].Text, tokens[i].POS)
	}

	return &types.Doc{Text: text, Tokens: tokens, SentenceStarts: starts}
}

func (a *RuleAnnotator) Lemmatizer() Lemmatizer {
	return a.lemmatizer
}

func (a *RuleAnnotator) Release() {}

// SentenceStarts splits on terminal punctuation and on whitespace tokens
// containing a line break. Closing quotes and brackets stay with the
// sentence they close.
func SentenceStarts(tokens []types.Token) []int {
	if len(tokens) == 0 {
		return nil
	}
	starts := []int{0}
	for i := 0; i < len(tokens); i++ {
		if !isSentenceBoundary(tokens[i]) {
			continue
		}
		j := i + 1
		for j < len(tokens) && isClosing(tokens[j].Text) {
			j++
		}
		for j < len(tokens) && tokens[j].IsSpace {
			j++
		}
		if j < len(tokens) && j > starts[len(starts)-1] {
			starts = append(starts, j)
		}
		i = j - 1
	}
	return starts
}

func isSentenceBoundary(tok types.Token) bool {
	switch tok.Text {
	case ".", "!", "?", "...", "…":
		return true
	}
	if tok.IsSpace && strings.Contains(tok.Text, "\n") {
		return true
	}
	return tok.IsPunct && (strings.Trim(tok.Text, "!?") == "")
}

func isClosing(s string) bool {
	switch s {
	case "\"", "'", ")", "]", "}", "”", "’", "»":
		return true
	}
	return false
}
