package pluginannotator_test

import (
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp"
	"condition-ner/internal/nlp/pluginannotator"
	"condition-ner/plugin/shared"

	"github.com/hashicorp/go-plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginAnnotatorOverRPC(t *testing.T) {
	plugins := map[string]plugin.Plugin{
		shared.AnnotatorPluginName: &shared.AnnotatorPlugin{Impl: pluginannotator.NewServer(nlp.NewRuleAnnotator())},
	}
	client, _ := plugin.TestPluginRPCConn(t, plugins, nil)
	defer client.Close()

	annotator, err := pluginannotator.Dispense(client)
	require.NoError(t, err)

	doc, err := annotator.Annotate("I have asthma.")
	require.NoError(t, err)

	require.Len(t, doc.Tokens, 4)
	assert.Equal(t, "asthma", doc.Tokens[2].Text)
	assert.Equal(t, types.NOUN, doc.Tokens[2].POS)
	assert.Equal(t, 7, doc.Tokens[2].Start)
}

func TestServerUsesBackgroundContext(t *testing.T) {
	doc, err := pluginannotator.NewServer(nlp.NewRuleAnnotator()).Annotate("flu")
	require.NoError(t, err)
	assert.Equal(t, "flu", doc.Tokens[0].Lemma)
}
