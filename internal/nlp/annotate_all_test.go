package nlp_test

import (
	"context"
	"testing"

	"condition-ner/internal/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProgress struct {
	count int
}

func (p *countingProgress) Add(n int) error {
	p.count += n
	return nil
}

func TestAnnotateAllPreservesOrder(t *testing.T) {
	texts := []string{"I have asthma", "acne", "my ptsd is worse lately", "", "flu season"}
	progress := &countingProgress{}

	docs, err := nlp.AnnotateAll(context.Background(), nlp.NewRuleAnnotator(), texts, 3, progress)
	require.NoError(t, err)
	require.Len(t, docs, len(texts))

	for i, doc := range docs {
		assert.Equal(t, texts[i], doc.Text)
	}
	assert.Empty(t, docs[3].Tokens)
	assert.Equal(t, len(texts), progress.count)
}

func TestAnnotateAllPropagatesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := nlp.AnnotateAll(ctx, nlp.NewRuleAnnotator(), []string{"a", "b"}, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAnnotator(t *testing.T) {
	annotator, err := nlp.LoadAnnotator(nlp.RuleBased, nlp.AnnotatorOptions{})
	require.NoError(t, err)
	defer annotator.Release()

	_, err = nlp.LoadAnnotator(nlp.HTTPService, nlp.AnnotatorOptions{})
	assert.Error(t, err)

	_, err = nlp.LoadAnnotator(nlp.Plugin, nlp.AnnotatorOptions{})
	assert.Error(t, err)

	_, err = nlp.LoadAnnotator("spacy", nlp.AnnotatorOptions{})
	assert.ErrorContains(t, err, "unsupported annotator type")
}
