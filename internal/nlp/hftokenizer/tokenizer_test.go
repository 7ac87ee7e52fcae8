package hftokenizer_test

import (
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp/hftokenizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocFromByteOffsetsMergesSubwords(t *testing.T) {
	text := "I have asthma."
	offsets := [][2]int{{0, 1}, {1, 6}, {6, 9}, {9, 13}, {13, 14}}

	doc := hftokenizer.DocFromByteOffsets(text, offsets)

	require.Len(t, doc.Tokens, 4)
	assert.Equal(t, "I", doc.Tokens[0].Text)
	assert.Equal(t, "have", doc.Tokens[1].Text)
	assert.Equal(t, 2, doc.Tokens[1].Start)
	assert.Equal(t, "asthma", doc.Tokens[2].Text)
	assert.Equal(t, 7, doc.Tokens[2].Start)
	assert.Equal(t, 13, doc.Tokens[2].End)
	assert.Equal(t, types.X, doc.Tokens[2].POS)
	assert.Equal(t, ".", doc.Tokens[3].Text)
	assert.Equal(t, types.PUNCT, doc.Tokens[3].POS)
	assert.Equal(t, []int{0}, doc.SentenceStarts)
}

func TestDocFromByteOffsetsUsesRuneOffsets(t *testing.T) {
	text := "café flu"
	offsets := [][2]int{{0, 5}, {5, 9}}

	doc := hftokenizer.DocFromByteOffsets(text, offsets)

	require.Len(t, doc.Tokens, 2)
	assert.Equal(t, "flu", doc.Tokens[1].Text)
	assert.Equal(t, 5, doc.Tokens[1].Start)
	assert.Equal(t, 8, doc.Tokens[1].End)
}

func TestDocFromByteOffsetsSkipsSpecialTokens(t *testing.T) {
	doc := hftokenizer.DocFromByteOffsets("flu", [][2]int{{0, 0}, {0, 3}, {0, 0}})

	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, "flu", doc.Tokens[0].Lower)
}
