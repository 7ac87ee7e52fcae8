package training_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp"
	"condition-ner/internal/patterns"
	"condition-ner/internal/training"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsToJSON(t *testing.T) {
	annotator := nlp.NewRuleAnnotator()
	doc := annotator.AnnotateText("I have asthma. It is bad.")
	doc.Entities = []types.Entity{doc.NewEntity("COND", 2, 3)}
	other := annotator.AnnotateText("No problems")

	out, err := training.DocsToJSON([]*types.Doc{doc, other}, 0)
	require.NoError(t, err)

	require.Len(t, out.Paragraphs, 2)
	para := out.Paragraphs[0]
	assert.Equal(t, "I have asthma. It is bad.", para.Raw)
	require.Len(t, para.Sentences, 2)

	first := para.Sentences[0].Tokens
	require.Len(t, first, 4)
	assert.Equal(t, training.JSONToken{Id: 2, Orth: "asthma", Tag: doc.Tokens[2].Tag, Ner: "U-COND"}, first[2])
	assert.Equal(t, "O", first[0].Ner)

	// token ids continue across sentences
	assert.Equal(t, 4, para.Sentences[1].Tokens[0].Id)

	assert.Equal(t, "No problems", out.Paragraphs[1].Raw)
}

func TestWriteDocsShape(t *testing.T) {
	doc := nlp.NewRuleAnnotator().AnnotateText("chronic migraine")
	doc.Entities = []types.Entity{doc.NewEntity("COND", 0, 2)}

	var buf bytes.Buffer
	require.NoError(t, training.WriteDocs(&buf, []*types.Doc{doc}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.EqualValues(t, 0, decoded[0]["id"])

	paragraphs := decoded[0]["paragraphs"].([]any)
	para := paragraphs[0].(map[string]any)
	assert.Equal(t, []any{}, para["cats"])
	sent := para["sentences"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{}, sent["brackets"])
	tokens := sent["tokens"].([]any)
	assert.Equal(t, "B-COND", tokens[0].(map[string]any)["ner"])
	assert.Equal(t, "L-COND", tokens[1].(map[string]any)["ner"])

	assert.Contains(t, buf.String(), "\n  {")
}

func TestPatternExampleJSON(t *testing.T) {
	doc := nlp.NewRuleAnnotator().AnnotateText("My breast cancer is back")
	example := training.NewPatternExample(doc, []patterns.Match{
		{Label: "COND", Start: 1, End: 3},
		{Label: "COND", Start: 2, End: 3},
	})

	data, err := json.Marshal(example)
	require.NoError(t, err)
	assert.JSONEq(t, `["My breast cancer is back", {"entities": [[3, 16, "COND"], [10, 16, "COND"]]}]`, string(data))

	var decoded training.PatternExample
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, example, decoded)
}

func TestWritePatternExamplesKeepsEmptyDocs(t *testing.T) {
	doc := nlp.NewRuleAnnotator().AnnotateText("nothing here")

	var buf bytes.Buffer
	require.NoError(t, training.WritePatternExamples(&buf, []training.PatternExample{training.NewPatternExample(doc, nil)}))

	assert.JSONEq(t, `[["nothing here", {"entities": []}]]`, buf.String())
	assert.Contains(t, buf.String(), "\n    [")
}
