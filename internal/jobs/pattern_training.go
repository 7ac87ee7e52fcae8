package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"condition-ner/internal/corpus"
	"condition-ner/internal/patterns"
	"condition-ner/internal/training"
)

const (
	DefaultPatternTrainingOutput = "training_data_askdocs.json"
	DefaultPatternTrainingSize   = 600
)

type PatternTrainingParams struct {
	Input  string
	Output string
	// SampleSize is the number of leading texts used, all if fewer.
	SampleSize int
	// Rules defaults to the builtin pattern training rules.
	Rules *patterns.RuleSet
}

type PatternTrainingStats struct {
	Docs             int
	DocsWithEntities int
	Entities         int
}

// PatternTraining turns the first texts of the input into character offset
// training examples from the raw matches of the condition rules. Every text
// yields an example, also those without matches.
func PatternTraining(ctx context.Context, env *Env, params PatternTrainingParams) (PatternTrainingStats, error) {
	if params.Output == "" {
		params.Output = DefaultPatternTrainingOutput
	}
	if params.SampleSize == 0 {
		params.SampleSize = DefaultPatternTrainingSize
	}

	rules, err := ruleSetOrBuiltin(params.Rules, patterns.PatternTrainingRules)
	if err != nil {
		return PatternTrainingStats{}, err
	}
	matcher, err := rules.Matcher(env.compileOptions(), nil)
	if err != nil {
		return PatternTrainingStats{}, fmt.Errorf("error compiling pattern training rules: %w", err)
	}

	texts, err := env.readTexts(ctx, params.Input)
	if err != nil {
		return PatternTrainingStats{}, err
	}
	texts = corpus.Head(texts, params.SampleSize)

	docs, err := env.annotate(ctx, texts, "matching")
	if err != nil {
		return PatternTrainingStats{}, err
	}

	var stats PatternTrainingStats
	examples := make([]training.PatternExample, 0, len(docs))
	for _, doc := range docs {
		example := training.NewPatternExample(doc, matcher.Match(doc))
		if n := len(example.Annotations.Entities); n > 0 {
			stats.DocsWithEntities++
			stats.Entities += n
		}
		examples = append(examples, example)
	}
	stats.Docs = len(examples)
	conditionsFound.WithLabelValues(PatternTrainingJob).Add(float64(stats.Entities))

	err = env.storage().WriteLocationWith(ctx, params.Output, func(w io.Writer) error {
		return training.WritePatternExamples(w, examples)
	})
	if err != nil {
		return stats, err
	}

	slog.Info("wrote pattern training examples", "output", params.Output, "docs", stats.Docs, "docs_with_entities", stats.DocsWithEntities, "entities", stats.Entities)
	return stats, nil
}
