package jobs

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"condition-ner/internal/alignment"
	"condition-ner/internal/core/types"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/split"
	"condition-ner/internal/training"
)

type ConvertLabelsParams struct {
	Export  labelstudio.ExportReader
	DataKey string
	Split   split.Percentages
	Seed    int64

	TrainFile string
	DevFile   string
	TestFile  string
}

type ConvertLabelsStats struct {
	Alignment alignment.Stats
	Split     split.Stats
}

// ConvertLabels aligns the labeled tasks of an export to tokens, splits the
// examples by entity count and writes one training file per split.
func ConvertLabels(ctx context.Context, env *Env, params ConvertLabelsParams) (ConvertLabelsStats, error) {
	if err := params.Split.Validate(); err != nil {
		return ConvertLabelsStats{}, err
	}

	builder := alignment.Builder{
		Annotator:   env.annotator(),
		DataKey:     params.DataKey,
		Concurrency: env.Concurrency,
		Progress:    env.Progress,
	}

	docs, alignStats, err := builder.Build(ctx, params.Export)
	if err != nil {
		return ConvertLabelsStats{}, err
	}

	docsAnnotated.WithLabelValues("aligning").Add(float64(alignStats.Docs))
	conditionsFound.WithLabelValues(ConvertLabelsJob).Add(float64(alignStats.Aligned()))
	misalignedAnnotations.Add(float64(alignStats.Misaligned))

	out := env.out()
	fmt.Fprintf(out, "%d entities in %d docs (%d misaligned)\n", alignStats.Entities, alignStats.Docs, alignStats.Misaligned)
	fmt.Fprintf(out, "%d entity values: %s\n", len(alignStats.EntityValues), formatEntityValues(alignStats.EntityValues))

	result, err := split.Split(docs, params.Split, params.Seed)
	if err != nil {
		return ConvertLabelsStats{Alignment: alignStats}, err
	}

	for _, s := range []struct {
		name  string
		stats split.SetStats
	}{{"train", result.Stats.Train}, {"dev", result.Stats.Dev}, {"test", result.Stats.Test}} {
		fmt.Fprintf(out, "%d %s entities in %d docs (%d %%)\n", s.stats.Entities, s.name, s.stats.Docs, s.stats.Percent)
	}

	for _, f := range []struct {
		location string
		docs     []*types.Doc
	}{{params.TrainFile, result.Train}, {params.DevFile, result.Dev}, {params.TestFile, result.Test}} {
		err := env.storage().WriteLocationWith(ctx, f.location, func(w io.Writer) error {
			return training.WriteDocs(w, f.docs)
		})
		if err != nil {
			return ConvertLabelsStats{Alignment: alignStats, Split: result.Stats}, err
		}
	}

	return ConvertLabelsStats{Alignment: alignStats, Split: result.Stats}, nil
}

// formatEntityValues lists entity texts by descending count, ties in
// alphabetical order.
func formatEntityValues(values map[string]int) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(values[b], values[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%q: %d", k, values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
