package pluginannotator

import (
	"context"

	"condition-ner/internal/core/types"
	"condition-ner/plugin/shared"
)

type contextAnnotator interface {
	Annotate(ctx context.Context, text string) (*types.Doc, error)
}

type server struct {
	impl contextAnnotator
}

// NewServer adapts an in-process annotator to the plugin interface.
func NewServer(impl contextAnnotator) shared.Annotator {
	return &server{impl: impl}
}

func (s *server) Annotate(text string) (*types.Doc, error) {
	return s.impl.Annotate(context.Background(), text)
}
