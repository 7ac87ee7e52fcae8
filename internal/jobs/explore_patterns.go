package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"condition-ner/internal/abbrev"
	"condition-ner/internal/core/types"
	"condition-ner/internal/corpus"
	"condition-ner/internal/patterns"
)

const (
	DefaultExploreSampleSize = 300
	DefaultExploreSeed       = 27

	// vocabulary of the abbreviation rules filled with each doc's short forms
	abbreviationVocabulary = "abbreviations"
)

type ExplorePatternsParams struct {
	Input      string
	SampleSize int
	Seed       int64
	// Rules defaults to the builtin abbreviation rules. Their abbreviations
	// vocabulary is replaced per doc by the short forms defined in it.
	Rules *patterns.RuleSet
	// Format renders a matched entity for the report, defaults to plain text.
	Format func(label, text string) string
}

// ExploredDoc is a sampled doc with at least one condition entity.
type ExploredDoc struct {
	Doc           *types.Doc
	Abbreviations []abbrev.Abbreviation
}

// ExplorePatterns samples texts, marks abbreviations defined in each of them
// that are used as nouns and reports every condition entity found. Docs with
// at least one condition are returned for visualization.
func ExplorePatterns(ctx context.Context, env *Env, params ExplorePatternsParams) ([]ExploredDoc, error) {
	if params.SampleSize == 0 {
		params.SampleSize = DefaultExploreSampleSize
	}
	format := params.Format
	if format == nil {
		format = func(label, text string) string { return label + " " + text }
	}

	rules, err := ruleSetOrBuiltin(params.Rules, patterns.AbbreviationRules)
	if err != nil {
		return nil, err
	}
	opts := env.compileOptions()
	// compile once up front so a broken rule set fails before annotation
	if _, err := rules.Compile(opts, nil); err != nil {
		return nil, fmt.Errorf("error compiling abbreviation rules: %w", err)
	}

	texts, err := env.readTexts(ctx, params.Input)
	if err != nil {
		return nil, err
	}
	sample, err := corpus.Sample(texts, params.SampleSize, params.Seed)
	if err != nil {
		return nil, err
	}

	docs, err := env.annotate(ctx, sample, "exploring")
	if err != nil {
		return nil, err
	}

	out := env.out()
	var explored []ExploredDoc
	for _, doc := range docs {
		abbreviations := abbrev.Detect(doc)
		matcher, err := rules.Matcher(opts, map[string][]string{
			abbreviationVocabulary: abbrev.ShortForms(abbreviations),
		})
		if err != nil {
			return nil, fmt.Errorf("error compiling abbreviation rules: %w", err)
		}
		patterns.NewEntityRuler(matcher, true).Apply(doc)

		conditions := doc.EntitiesWithLabel(ConditionLabel)
		conditionsFound.WithLabelValues(ExplorePatternsJob).Add(float64(len(conditions)))
		for _, ent := range conditions {
			fmt.Fprintln(out, format(ent.Label, ent.Text))
		}
		if len(conditions) > 0 {
			explored = append(explored, ExploredDoc{Doc: doc, Abbreviations: abbreviations})
		}
	}

	slog.Info("explored sample", "sampled", len(docs), "with_conditions", len(explored))
	return explored, nil
}

type ExplorePatternsStats struct {
	DocsWithConditions int
	Conditions         int
}

func NewExplorePatternsStats(docs []ExploredDoc) ExplorePatternsStats {
	stats := ExplorePatternsStats{DocsWithConditions: len(docs)}
	for _, d := range docs {
		stats.Conditions += len(d.Doc.EntitiesWithLabel(ConditionLabel))
	}
	return stats
}
