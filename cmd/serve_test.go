package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/answer-engine/internal/ambiguity"
	"github.com/sells-group/answer-engine/internal/answer"
	"github.com/sells-group/answer-engine/internal/config"
	"github.com/sells-group/answer-engine/internal/intent"
	"github.com/sells-group/answer-engine/internal/model"
	"github.com/sells-group/answer-engine/internal/retrieval"
	"github.com/sells-group/answer-engine/internal/score"
	"github.com/sells-group/answer-engine/internal/source"
)

type stubAdapter struct {
	name   string
	weight float64
	value  string
}

func (s *stubAdapter) Name() string    { return s.name }
func (s *stubAdapter) Weight() float64 { return s.weight }

func (s *stubAdapter) Fetch(ctx context.Context, query model.StructuredQuery) (*model.SourceResult, error) {
	if s.value == "" {
		return nil, nil
	}
	return &model.SourceResult{
		SourceID:          s.name,
		Value:             s.value,
		ReliabilityWeight: s.weight,
		FetchedAt:         time.Now(),
	}, nil
}

func testRouter(adapters ...source.Adapter) http.Handler {
	reg := source.NewRegistry()
	for _, a := range adapters {
		reg.Register(a)
	}
	eng := answer.NewEngine(
		intent.NewParser(),
		nil,
		retrieval.NewOrchestrator(reg, time.Second),
		score.NewScorer(0.5),
		ambiguity.NewDetector(0.6, nil),
		config.CacheConfig{DefaultTTLHours: 24},
	)
	return newRouter(eng)
}

func TestRouter_Health(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_Query(t *testing.T) {
	router := testRouter(&stubAdapter{name: "wikipedia", weight: 0.9, value: "1987"})

	body := strings.NewReader(`{"query": "When was Acme Corp founded?"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"1987"`)
	assert.Contains(t, rec.Body.String(), `"wikipedia"`)
}

func TestRouter_QueryUnparseable(t *testing.T) {
	router := testRouter(&stubAdapter{name: "wikipedia", weight: 0.9, value: "1987"})

	body := strings.NewReader(`{"query": "when was it founded?"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNPARSEABLE")
}

func TestRouter_QueryNoData(t *testing.T) {
	router := testRouter(&stubAdapter{name: "wikipedia", weight: 0.9})

	body := strings.NewReader(`{"query": "When was Acme Corp founded?"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confidence":0`)
	assert.Contains(t, rec.Body.String(), model.ReasonNoSupport)
}

func TestRouter_QueryMissingBody(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{}")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")
}

func TestRouter_QueryInvalidJSON(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "UNPARSEABLE", errorCode(model.ErrUnparseable))
	assert.Equal(t, "NO_DATA", errorCode(&answer.NoDataError{}))
	assert.Equal(t, "INTERNAL", errorCode(assert.AnError))
}
