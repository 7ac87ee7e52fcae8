package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp/hftokenizer"

	"github.com/daulet/tokenizers"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	onnxModelFile     = "model.onnx"
	onnxTokenizerFile = "tokenizer.json"
	onnxLabelsFile    = "labels.json"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// InitOnnxRuntime loads the onnxruntime shared library. Only the first call
// has an effect.
func InitOnnxRuntime(dylib string) error {
	ortInitOnce.Do(func() {
		if dylib != "" {
			ort.SetSharedLibraryPath(dylib)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// OnnxAnnotator tags words with a token classification model exported to
// ONNX. The model directory holds model.onnx, tokenizer.json and labels.json,
// the list of output labels in logit order. A label is a coarse POS tag,
// optionally followed by "|" and a fine grained tag, e.g. "NOUN|NN".
type OnnxAnnotator struct {
	session    *ort.DynamicAdvancedSession
	labels     []posLabel
	lemmatizer Lemmatizer

	mu        sync.Mutex
	tokenizer *tokenizers.Tokenizer
}

type posLabel struct {
	pos string
	tag string
}

func parseLabels(raw []string) ([]posLabel, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("model has no labels")
	}
	labels := make([]posLabel, len(raw))
	for i, l := range raw {
		pos, tag, _ := strings.Cut(l, "|")
		if pos == "" {
			return nil, fmt.Errorf("label %d is empty", i)
		}
		labels[i] = posLabel{pos: pos, tag: tag}
	}
	return labels, nil
}

func LoadOnnxAnnotator(modelDir, dylib string) (*OnnxAnnotator, error) {
	if err := InitOnnxRuntime(dylib); err != nil {
		return nil, fmt.Errorf("could not init ONNX Runtime: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(modelDir, onnxLabelsFile))
	if err != nil {
		return nil, fmt.Errorf("error reading model labels: %w", err)
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing model labels: %w", err)
	}
	labels, err := parseLabels(raw)
	if err != nil {
		return nil, err
	}

	tk, err := tokenizers.FromFile(filepath.Join(modelDir, onnxTokenizerFile))
	if err != nil {
		return nil, fmt.Errorf("tokenizer load: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		filepath.Join(modelDir, onnxModelFile),
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		tk.Close()
		return nil, fmt.Errorf("failed to create onnx session: %w", err)
	}

	return &OnnxAnnotator{
		session:    session,
		labels:     labels,
		lemmatizer: NewRuleLemmatizer(),
		tokenizer:  tk,
	}, nil
}

func (a *OnnxAnnotator) encode(text string) (tokenizers.Encoding, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tokenizer == nil {
		return tokenizers.Encoding{}, fmt.Errorf("onnx annotator has been released")
	}
	return a.tokenizer.EncodeWithOptions(text, false, tokenizers.WithReturnAllAttributes()), nil
}

func (a *OnnxAnnotator) Annotate(ctx context.Context, text string) (*types.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := a.encode(text)
	if err != nil {
		return nil, err
	}
	offsets := make([][2]int, len(enc.Offsets))
	for i, off := range enc.Offsets {
		offsets[i] = [2]int{int(off[0]), int(off[1])}
	}
	doc := hftokenizer.DocFromByteOffsets(text, offsets)
	if len(enc.IDs) == 0 {
		return doc, nil
	}

	ids := make([]int64, len(enc.IDs))
	mask := make([]int64, len(enc.IDs))
	for i, v := range enc.IDs {
		ids[i] = int64(v)
		mask[i] = 1
	}
	L, N := int64(len(ids)), int64(len(a.labels))

	inT, err := ort.NewTensor(ort.NewShape(1, L), ids)
	if err != nil {
		return nil, err
	}
	defer inT.Destroy()
	maskT, err := ort.NewTensor(ort.NewShape(1, L), mask)
	if err != nil {
		return nil, err
	}
	defer maskT.Destroy()
	outT, err := ort.NewEmptyTensor[float32](ort.NewShape(1, L, N))
	if err != nil {
		return nil, err
	}
	defer outT.Destroy()

	if err := a.session.Run([]ort.Value{inT, maskT}, []ort.Value{outT}); err != nil {
		return nil, fmt.Errorf("session run error: %w", err)
	}

	tagTokens(doc, offsets, argmaxRows(outT.GetData(), int(N)), a.labels, a.lemmatizer)
	return doc, nil
}

// argmaxRows returns the index of the largest value of every row of width n.
func argmaxRows(flat []float32, n int) []int {
	rows := make([]int, len(flat)/n)
	for r := range rows {
		row := flat[r*n : (r+1)*n]
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		rows[r] = best
	}
	return rows
}

// tagTokens gives every word the label predicted for its first subword and
// lemmatizes it with that label.
func tagTokens(doc *types.Doc, offsets [][2]int, predicted []int, labels []posLabel, lemmatizer Lemmatizer) {
	sub := 0
	for i := range doc.Tokens {
		tok := &doc.Tokens[i]
		for sub < len(offsets) && runeOffset(doc.Text, offsets[sub][1]) <= tok.Start {
			sub++
		}
		if sub >= len(offsets) || sub >= len(predicted) {
			slog.Warn("no prediction for token", "token", tok.Text, "start", tok.Start)
			break
		}
		label := labels[predicted[sub]]
		tok.POS, tok.Tag = label.pos, label.tag
		tok.IsPunct = label.pos == types.PUNCT || tok.IsPunct
		tok.Lemma = lemmatizer.Lemma(tok.Text, tok.POS)
	}
}

func runeOffset(text string, byteOffset int) int {
	return utf8.RuneCountInString(text[:min(byteOffset, len(text))])
}

func (a *OnnxAnnotator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tokenizer == nil {
		return
	}
	if err := a.session.Destroy(); err != nil {
		slog.Warn("error destroying onnx session", "error", err)
	}
	if err := a.tokenizer.Close(); err != nil {
		slog.Warn("error closing tokenizer", "error", err)
	}
	a.tokenizer = nil
}
