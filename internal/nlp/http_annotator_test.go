package nlp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp"
	"condition-ner/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAnnotator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/annotate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req api.AnnotateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bad flu. ok", req.Text)

		resp := api.AnnotateResponse{Tokens: []api.AnnotatedToken{
			{Text: "bad", Idx: 0, Lemma: "bad", Pos: "ADJ", Tag: "JJ", IsSentStart: true},
			{Text: "flu", Idx: 4, Lemma: "flu", Pos: "NOUN", Tag: "NN"},
			{Text: ".", Idx: 7, Lemma: ".", Pos: "PUNCT", Tag: "."},
			{Text: "ok", Idx: 9, Lemma: "ok", Pos: "INTJ", Tag: "UH", IsSentStart: true},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	doc, err := nlp.NewHTTPAnnotator(server.URL).Annotate(context.Background(), "bad flu. ok")
	require.NoError(t, err)

	require.Len(t, doc.Tokens, 4)
	assert.Equal(t, types.NOUN, doc.Tokens[1].POS)
	assert.Equal(t, 4, doc.Tokens[1].Start)
	assert.Equal(t, 7, doc.Tokens[1].End)
	assert.True(t, doc.Tokens[2].IsPunct)
	assert.Equal(t, []int{0, 3}, doc.SentenceStarts)
}

func TestHTTPAnnotatorServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := nlp.NewHTTPAnnotator(server.URL).Annotate(context.Background(), "text")
	assert.ErrorContains(t, err, "503")
}

func TestDocFromWireRejectsMisplacedTokens(t *testing.T) {
	_, err := nlp.DocFromWire("the cat", []api.AnnotatedToken{{Text: "cat", Idx: 0}})
	assert.Error(t, err)

	_, err = nlp.DocFromWire("the cat", []api.AnnotatedToken{{Text: "cat", Idx: 4}, {Text: "the", Idx: 0}})
	assert.Error(t, err)
}
