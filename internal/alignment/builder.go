package alignment

import (
	"context"
	"fmt"
	"log/slog"

	"condition-ner/internal/core/types"
	"condition-ner/internal/corpus"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/nlp"
)

type Stats struct {
	Docs         int
	Entities     int
	Misaligned   int
	EntityValues map[string]int
}

// Aligned returns the number of entities realised in the examples.
func (s Stats) Aligned() int {
	return s.Entities - s.Misaligned
}

// Builder converts labeled tasks into token-aligned examples.
type Builder struct {
	Annotator   nlp.Annotator
	DataKey     string
	Concurrency int
	Progress    nlp.ProgressFactory
}

type pendingExample struct {
	text    string
	offsets []Offset
}

// Build keeps tasks with a single, non-cancelled completion, re-tokenizes
// their text and aligns the annotations. Unaligned and overlapping
// annotations are dropped and counted as misaligned.
func (b *Builder) Build(ctx context.Context, reader labelstudio.ExportReader) ([]*types.Doc, Stats, error) {
	stats := Stats{EntityValues: map[string]int{}}

	tasks, err := reader.ReadTasks(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("error reading labeled tasks: %w", err)
	}

	dataKey := b.DataKey
	if dataKey == "" {
		dataKey = corpus.DefaultDataKey
	}

	var pending []pendingExample
	for _, task := range tasks {
		completion, ok := labelstudio.ValidCompletion(task)
		if !ok {
			continue
		}
		text, err := task.Text(dataKey)
		if err != nil {
			return nil, stats, err
		}

		spans := completion.Spans()
		offsets := make([]Offset, 0, len(spans))
		for _, span := range spans {
			offsets = append(offsets, Offset{Start: span.Start, End: span.End, Label: span.Label})
			stats.EntityValues[span.Text]++
		}
		stats.Entities += len(offsets)
		pending = append(pending, pendingExample{text: text, offsets: offsets})
	}

	texts := make([]string, len(pending))
	for i, p := range pending {
		texts[i] = p.text
	}
	var progress nlp.Progress
	if b.Progress != nil {
		progress = b.Progress(len(texts), "aligning")
	}
	docs, err := nlp.AnnotateAll(ctx, b.Annotator, texts, b.Concurrency, progress)
	if err != nil {
		return nil, stats, err
	}

	for i, doc := range docs {
		offsets := dropOverlapping(pending[i].offsets)
		tags, err := BILUOTagsFromOffsets(doc, offsets, OutsideTag)
		if err != nil {
			return nil, stats, fmt.Errorf("error aligning task text %d: %w", i, err)
		}
		entities, err := SpansFromBILUO(doc, tags)
		if err != nil {
			return nil, stats, fmt.Errorf("error decoding tags of task text %d: %w", i, err)
		}
		doc.Entities = entities

		if dropped := len(pending[i].offsets) - len(entities); dropped > 0 {
			slog.Debug("dropped misaligned annotations", "example", i, "dropped", dropped)
			stats.Misaligned += dropped
		}
	}

	stats.Docs = len(docs)
	return docs, stats, nil
}

// dropOverlapping keeps annotations in order and drops any that overlaps an
// annotation already kept.
func dropOverlapping(offsets []Offset) []Offset {
	kept := make([]Offset, 0, len(offsets))
	for _, off := range offsets {
		overlaps := false
		for _, k := range kept {
			if off.Start < k.End && k.Start < off.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, off)
		}
	}
	return kept
}
