package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	backend "condition-ner/internal/api"
	"condition-ner/internal/abbrev"
	"condition-ner/internal/core/types"
	"condition-ner/internal/database"
	"condition-ner/internal/jobs"
	"condition-ner/internal/nlp"
	"condition-ner/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return db
}

// exploredDoc annotates text and marks the tokens [start, end) as label.
func exploredDoc(text string, label string, start, end int) jobs.ExploredDoc {
	doc := nlp.NewRuleAnnotator().AnnotateText(text)
	doc.Entities = []types.Entity{doc.NewEntity(label, start, end)}
	return jobs.ExploredDoc{Doc: doc, Abbreviations: abbrev.Detect(doc)}
}

func testDocs() []jobs.ExploredDoc {
	return []jobs.ExploredDoc{
		exploredDoc("I have irritable bowel syndrome (IBS) today", jobs.ConditionLabel, 6, 7),
		exploredDoc("My back <hurts> again", "SYMPTOM", 1, 2),
		exploredDoc("Flu season is here", jobs.ConditionLabel, 0, 1),
	}
}

func newRouter(docs []jobs.ExploredDoc, db *gorm.DB) *chi.Mux {
	router := chi.NewRouter()
	backend.NewVisualizerService(docs, db).AddRoutes(router)
	return router
}

func get(t *testing.T, router http.Handler, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newRouter(nil, nil), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	rec := get(t, newRouter(nil, nil), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "condner_misaligned_annotations_total")
}

func TestListDocs(t *testing.T) {
	router := newRouter(testDocs(), nil)

	rec := get(t, router, "/api/v1/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	var all api.ListDocsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, 3, all.Total)
	require.Len(t, all.Docs, 3)
	assert.Equal(t, []api.Entity{{Start: 33, End: 36, Label: "COND", Text: "IBS", LContext: "ble bowel syndrome (", RContext: ") today"}}, all.Docs[0].Entities)

	rec = get(t, router, "/api/v1/docs?label=COND&offset=1&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var conditions api.ListDocsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conditions))
	assert.Equal(t, 2, conditions.Total)
	require.Len(t, conditions.Docs, 1)
	assert.Equal(t, 2, conditions.Docs[0].Index)
	assert.Equal(t, "Flu season is here", conditions.Docs[0].Text)

	rec = get(t, router, "/api/v1/docs?offset=10")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty api.ListDocsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.Equal(t, 3, empty.Total)
	assert.Empty(t, empty.Docs)

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/docs?limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/docs?limit=abc").Code)
}

func TestGetDoc(t *testing.T) {
	router := newRouter(testDocs(), nil)

	rec := get(t, router, "/api/v1/docs/0")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail api.DocDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 0, detail.Index)
	assert.Equal(t, "IBS", detail.Tokens[6].Text)
	assert.Equal(t, types.NOUN, detail.Tokens[6].Pos)
	assert.Equal(t, []api.Abbreviation{{Short: "IBS", Long: "irritable bowel syndrome"}}, detail.Abbreviations)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/docs/3").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/docs/first").Code)
}

func TestEntitiesPage(t *testing.T) {
	rec := get(t, newRouter(testDocs(), nil), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `(<mark class="COND">IBS<span>COND</span></mark>) today`)
	assert.Contains(t, body, `<mark class="COND">Flu<span>COND</span></mark> season is here`)
	assert.Contains(t, body, `&lt;hurts&gt;`)
	assert.NotContains(t, body, "<hurts>")
}

func TestTokensPage(t *testing.T) {
	rec := get(t, newRouter(testDocs(), nil), "/tokens")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, "<table"))
	assert.Contains(t, body, "<td>IBS</td><td>ibs</td><td>NOUN</td>")
}

func TestListRuns(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newRouter(nil, nil), "/api/v1/runs").Code)

	db := createDB(t)
	ctx := context.Background()
	first, err := database.StartRun(ctx, db, jobs.CreateTasksJob, "rule", 0, nil)
	require.NoError(t, err)
	require.NoError(t, database.CompleteRun(ctx, db, first, map[string]int{"Tasks": 3}))
	_, err = database.StartRun(ctx, db, jobs.ExplorePatternsJob, "rule", 27, nil)
	require.NoError(t, err)

	router := newRouter(nil, db)

	rec := get(t, router, "/api/v1/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []api.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	rec = get(t, router, "/api/v1/runs?job="+jobs.CreateTasksJob)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, first, runs[0].Id)
	assert.Equal(t, database.JobCompleted, runs[0].Status)
	assert.NotNil(t, runs[0].CompletionTime)
}
