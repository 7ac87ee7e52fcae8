package nlp_test

import (
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp"

	"github.com/stretchr/testify/assert"
)

func tokenTexts(tokens []types.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

func TestTokenizeWhitespace(t *testing.T) {
	tokens := nlp.NewTokenizer().Tokenize("the cat sat")

	assert.Equal(t, []string{"the", "cat", "sat"}, tokenTexts(tokens))
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 3, tokens[0].End)
	assert.Equal(t, 4, tokens[1].Start)
	assert.Equal(t, 7, tokens[1].End)
	assert.Equal(t, 8, tokens[2].Start)
	assert.Equal(t, 11, tokens[2].End)
}

func TestTokenizePunctuationAndClitics(t *testing.T) {
	tok := nlp.NewTokenizer()

	testCases := []struct {
		text     string
		expected []string
	}{
		{"I don't have ADHD.", []string{"I", "do", "n't", "have", "ADHD", "."}},
		{"(x-ray)", []string{"(", "x", "-", "ray", ")"}},
		{"Dr. Smith said so", []string{"Dr.", "Smith", "said", "so"}},
		{"wow...", []string{"wow", "..."}},
		{"my doctor's office, today!", []string{"my", "doctor", "'s", "office", ",", "today", "!"}},
		{"\"hernia\"", []string{"\"", "hernia", "\""}},
		{"I'm fine", []string{"I", "'m", "fine"}},
		{"the U.S. is big", []string{"the", "U.S.", "is", "big"}},
		{"cannot sleep", []string{"can", "not", "sleep"}},
		{"3.5mg", []string{"3.5mg"}},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.expected, tokenTexts(tok.Tokenize(tc.text)))
		})
	}
}

func TestTokenizeExtraWhitespace(t *testing.T) {
	tokens := nlp.NewTokenizer().Tokenize("hello  world\n\nbye")

	assert.Equal(t, []string{"hello", " ", "world", "\n\n", "bye"}, tokenTexts(tokens))
	assert.True(t, tokens[1].IsSpace)
	assert.Equal(t, 6, tokens[1].Start)
	assert.True(t, tokens[3].IsSpace)
	assert.Equal(t, 14, tokens[4].Start)
}

func TestTokenizeRuneOffsets(t *testing.T) {
	tokens := nlp.NewTokenizer().Tokenize("café asthma")

	assert.Equal(t, []string{"café", "asthma"}, tokenTexts(tokens))
	assert.Equal(t, 4, tokens[0].End)
	assert.Equal(t, 5, tokens[1].Start)
	assert.Equal(t, 11, tokens[1].End)
}

func TestTokenizeOffsetsCoverText(t *testing.T) {
	text := "My GP said it's IBS (irritable bowel syndrome)... great."
	runes := []rune(text)
	for _, tok := range nlp.NewTokenizer().Tokenize(text) {
		assert.Equal(t, tok.Text, string(runes[tok.Start:tok.End]))
	}
}
