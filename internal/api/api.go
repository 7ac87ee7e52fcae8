package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"condition-ner/internal/database"
	"condition-ner/internal/jobs"
	"condition-ner/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const defaultPageSize = 50

// VisualizerService serves the explored docs as highlighted html pages and
// as json. The run history is served when a database is configured.
type VisualizerService struct {
	docs []jobs.ExploredDoc
	db   *gorm.DB
}

func NewVisualizerService(docs []jobs.ExploredDoc, db *gorm.DB) *VisualizerService {
	return &VisualizerService{docs: docs, db: db}
}

func (s *VisualizerService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", PageHandler(s.EntitiesPage))
	r.Get("/tokens", PageHandler(s.TokensPage))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/docs", func(r chi.Router) {
			r.Get("/", RestHandler(s.ListDocs))
			r.Get("/{index}", RestHandler(s.GetDoc))
		})
		r.Get("/runs", RestHandler(s.ListRuns))
	})
}

func (s *VisualizerService) ListDocs(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.ListDocsParams](r)
	if err != nil {
		return nil, err
	}
	if params.Offset < 0 || params.Limit < 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "offset and limit must not be negative")
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	var matching []api.Doc
	for i, d := range s.docs {
		if params.Label != "" && len(d.Doc.EntitiesWithLabel(params.Label)) == 0 {
			continue
		}
		matching = append(matching, convertDoc(i, d.Doc))
	}

	start := min(params.Offset, len(matching))
	end := min(start+params.Limit, len(matching))
	return api.ListDocsResponse{Total: len(matching), Docs: append([]api.Doc{}, matching[start:end]...)}, nil
}

func (s *VisualizerService) doc(r *http.Request) (int, error) {
	index, err := URLParamInt(r, "index")
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(s.docs) {
		return 0, CodedErrorf(http.StatusNotFound, "doc %d not found", index)
	}
	return index, nil
}

func (s *VisualizerService) GetDoc(r *http.Request) (any, error) {
	index, err := s.doc(r)
	if err != nil {
		return nil, err
	}
	return convertDocDetail(index, s.docs[index]), nil
}

func (s *VisualizerService) ListRuns(r *http.Request) (any, error) {
	if s.db == nil {
		return nil, CodedErrorf(http.StatusNotFound, "run history is not enabled")
	}

	params, err := ParseRequestQueryParams[struct {
		Job   string `schema:"job"`
		Limit int    `schema:"limit"`
	}](r)
	if err != nil {
		return nil, err
	}

	runs, err := database.ListRuns(r.Context(), s.db, params.Job, params.Limit)
	if err != nil {
		slog.Error("error listing runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving runs")
	}
	return convertRuns(runs), nil
}

func (s *VisualizerService) EntitiesPage(r *http.Request) ([]byte, error) {
	page, err := renderEntities(s.docs)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, fmt.Errorf("error rendering entities: %w", err))
	}
	return page, nil
}

func (s *VisualizerService) TokensPage(r *http.Request) ([]byte, error) {
	page, err := renderTokens(s.docs)
	if err != nil {
		return nil, CodedError(http.StatusInternalServerError, fmt.Errorf("error rendering tokens: %w", err))
	}
	return page, nil
}
