// Package jobs implements the data preparation jobs behind the command line
// tools: candidate task generation, label conversion, pattern training data
// and pattern exploration.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"

	"condition-ner/internal/core/types"
	"condition-ner/internal/corpus"
	"condition-ner/internal/nlp"
	"condition-ner/internal/patterns"
	"condition-ner/internal/storage"
)

const ConditionLabel = "COND"

// Env holds the dependencies shared by every job.
type Env struct {
	// Annotator defaults to the rule annotator.
	Annotator nlp.Annotator
	// Lemmatizer normalises LEMMA vocabularies, defaults to the rule lemmatizer.
	Lemmatizer  nlp.Lemmatizer
	Storage     *storage.Resolver
	Concurrency int
	Progress    nlp.ProgressFactory
	// Out receives the human readable report of a job.
	Out io.Writer
}

// out returns Out, or io.Discard when Out is nil or holds a nil pointer.
func (e *Env) out() io.Writer {
	if e.Out == nil {
		return io.Discard
	}
	if v := reflect.ValueOf(e.Out); v.Kind() == reflect.Pointer && v.IsNil() {
		return io.Discard
	}
	return e.Out
}

func (e *Env) annotator() nlp.Annotator {
	if e.Annotator == nil {
		return nlp.NewRuleAnnotator()
	}
	return e.Annotator
}

func (e *Env) storage() *storage.Resolver {
	if e.Storage == nil {
		return storage.NewResolver(nil)
	}
	return e.Storage
}

func (e *Env) compileOptions() patterns.CompileOptions {
	lemmatizer := e.Lemmatizer
	if lemmatizer == nil {
		lemmatizer = nlp.NewRuleLemmatizer()
	}
	return patterns.CompileOptions{Lemmatizer: lemmatizer}
}

// readTexts reads the texts of location. A directory or an s3:// prefix
// ending in "/" reads every .json file below it in name order.
func (e *Env) readTexts(ctx context.Context, location string) ([]string, error) {
	locations, err := e.storage().ExpandLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	var texts []string
	for _, loc := range locations {
		data, err := e.storage().ReadLocation(ctx, loc)
		if err != nil {
			return nil, err
		}
		part, err := corpus.ReadTexts(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("error reading texts from %s: %w", loc, err)
		}
		texts = append(texts, part...)
	}
	return texts, nil
}

func (e *Env) annotate(ctx context.Context, texts []string, description string) ([]*types.Doc, error) {
	var progress nlp.Progress
	if e.Progress != nil {
		progress = e.Progress(len(texts), description)
	}
	docs, err := nlp.AnnotateAll(ctx, e.annotator(), texts, e.Concurrency, progress)
	if err != nil {
		return nil, err
	}
	docsAnnotated.WithLabelValues(description).Add(float64(len(docs)))
	return docs, nil
}

func ruleSetOrBuiltin(rs *patterns.RuleSet, builtin string) (*patterns.RuleSet, error) {
	if rs != nil {
		return rs, nil
	}
	return patterns.BuiltinRuleSet(builtin)
}
