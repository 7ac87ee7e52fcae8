package nlp

import (
	"context"
	"fmt"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp/hftokenizer"
	"condition-ner/internal/nlp/pluginannotator"
)

// AnnotatorType selects the annotator backend.
type AnnotatorType string

const (
	RuleBased   AnnotatorType = "rule"
	HTTPService AnnotatorType = "http"
	Plugin      AnnotatorType = "plugin"
	HFTokenizer AnnotatorType = "hf"
	Onnx        AnnotatorType = "onnx"
)

// Annotator turns raw text into a tokenized, tagged and lemmatized Doc.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*types.Doc, error)

	Release()
}

type AnnotatorOptions struct {
	URL           string
	PluginCommand string
	TokenizerPath string
	OnnxModelDir  string
	OnnxRuntime   string
}

type AnnotatorLoader func(AnnotatorOptions) (Annotator, error)

func NewAnnotatorLoaders() map[AnnotatorType]AnnotatorLoader {
	return map[AnnotatorType]AnnotatorLoader{
		RuleBased: func(_ AnnotatorOptions) (Annotator, error) {
			return NewRuleAnnotator(), nil
		},
		HTTPService: func(opts AnnotatorOptions) (Annotator, error) {
			if opts.URL == "" {
				return nil, fmt.Errorf("http annotator requires a url")
			}
			return NewHTTPAnnotator(opts.URL), nil
		},
		Plugin: func(opts AnnotatorOptions) (Annotator, error) {
			if opts.PluginCommand == "" {
				return nil, fmt.Errorf("plugin annotator requires a plugin command")
			}
			return pluginannotator.Load(opts.PluginCommand)
		},
		HFTokenizer: func(opts AnnotatorOptions) (Annotator, error) {
			return hftokenizer.Load(opts.TokenizerPath)
		},
		Onnx: func(opts AnnotatorOptions) (Annotator, error) {
			if opts.OnnxModelDir == "" {
				return nil, fmt.Errorf("onnx annotator requires a model directory")
			}
			return LoadOnnxAnnotator(opts.OnnxModelDir, opts.OnnxRuntime)
		},
	}
}

func LoadAnnotator(annotatorType AnnotatorType, opts AnnotatorOptions) (Annotator, error) {
	loader, ok := NewAnnotatorLoaders()[annotatorType]
	if !ok {
		return nil, fmt.Errorf("unsupported annotator type: %s", annotatorType)
	}
	annotator, err := loader(opts)
	if err != nil {
		return nil, fmt.Errorf("error loading %s annotator: %w", annotatorType, err)
	}
	return annotator, nil
}
