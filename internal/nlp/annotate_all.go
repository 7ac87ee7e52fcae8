package nlp

import (
	"context"
	"fmt"
	"log/slog"

	"condition-ner/internal/core/types"
	"condition-ner/internal/core/utils"
)

// Progress is satisfied by *progressbar.ProgressBar.
type Progress interface {
	Add(int) error
}

// ProgressFactory creates a Progress for total items once the count is known.
type ProgressFactory func(total int, description string) Progress

// AnnotateAll annotates texts concurrently and returns docs in input order.
func AnnotateAll(ctx context.Context, annotator Annotator, texts []string, concurrency int, progress Progress) ([]*types.Doc, error) {
	worker := func(text string) (*types.Doc, error) {
		return annotator.Annotate(ctx, text)
	}

	onDone := func() {
		if progress == nil {
			return
		}
		if err := progress.Add(1); err != nil {
			slog.Warn("error updating progress", "error", err)
		}
	}

	docs, err := utils.MapInPool(texts, worker, max(1, concurrency), onDone)
	if err != nil {
		return nil, fmt.Errorf("error annotating texts: %w", err)
	}
	return docs, nil
}
