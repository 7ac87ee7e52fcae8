package nlp

import (
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp/hftokenizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	labels, err := parseLabels([]string{"NOUN|NN", "VERB", "PUNCT|."})
	require.NoError(t, err)
	assert.Equal(t, []posLabel{{pos: "NOUN", tag: "NN"}, {pos: "VERB"}, {pos: "PUNCT", tag: "."}}, labels)

	_, err = parseLabels(nil)
	assert.Error(t, err)

	_, err = parseLabels([]string{"NOUN", "|NN"})
	assert.Error(t, err)
}

func TestArgmaxRows(t *testing.T) {
	flat := []float32{
		0.1, 0.7, 0.2,
		0.9, 0.0, 0.1,
		0.2, 0.2, 0.3,
	}
	assert.Equal(t, []int{1, 0, 2}, argmaxRows(flat, 3))
}

func TestTagTokensUsesFirstSubword(t *testing.T) {
	text := "My knees hurt."
	// "My", " kn", "ees", " hurt", "."
	offsets := [][2]int{{0, 2}, {2, 5}, {5, 8}, {8, 13}, {13, 14}}
	doc := hftokenizer.DocFromByteOffsets(text, offsets)
	require.Len(t, doc.Tokens, 4)

	labels := []posLabel{{pos: types.PRON, tag: "PRP$"}, {pos: types.NOUN, tag: "NNS"}, {pos: types.VERB, tag: "VBP"}, {pos: types.PUNCT, tag: "."}, {pos: types.X}}
	// the second subword of "knees" predicts X and is ignored
	tagTokens(doc, offsets, []int{0, 1, 4, 2, 3}, labels, NewRuleLemmatizer())

	var pos, tags, lemmas []string
	for _, tok := range doc.Tokens {
		pos = append(pos, tok.POS)
		tags = append(tags, tok.Tag)
		lemmas = append(lemmas, tok.Lemma)
	}
	assert.Equal(t, []string{"My", "knees", "hurt", "."}, []string{doc.Tokens[0].Text, doc.Tokens[1].Text, doc.Tokens[2].Text, doc.Tokens[3].Text})
	assert.Equal(t, []string{types.PRON, types.NOUN, types.VERB, types.PUNCT}, pos)
	assert.Equal(t, []string{"PRP$", "NNS", "VBP", "."}, tags)
	assert.Equal(t, "knee", lemmas[1])
	assert.True(t, doc.Tokens[3].IsPunct)
}

func TestLoadOnnxAnnotatorRequiresModelDir(t *testing.T) {
	_, err := LoadAnnotator(Onnx, AnnotatorOptions{})
	assert.ErrorContains(t, err, "model directory")
}
