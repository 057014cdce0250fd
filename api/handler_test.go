package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/ingestion"
	"github.com/poiesic/ticketvec/search"
	"github.com/poiesic/ticketvec/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIngestor struct {
	result *ingestion.Result
	err    error
}

func (s *stubIngestor) Ingest(ctx context.Context, ticketNumber, summary, notes string) (*ingestion.Result, error) {
	return s.result, s.err
}

type stubBulkRunner struct {
	report   *core.IngestionReport
	err      error
	gotLimit int
}

func (s *stubBulkRunner) Run(ctx context.Context, limit int) (*core.IngestionReport, error) {
	s.gotLimit = limit
	return s.report, s.err
}

type stubFinder struct {
	response *search.Response
	err      error
}

func (s *stubFinder) Find(ctx context.Context, query string, withNote bool) (*search.Response, error) {
	return s.response, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func newTestRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	SetupRoutes(router, h)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHandler_Embed(t *testing.T) {
	h := NewHandler(
		&stubIngestor{result: &ingestion.Result{Id: 42, Dims: 1536}},
		&stubBulkRunner{}, &stubFinder{}, &stubPinger{},
	)
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/embed", map[string]string{
		"ticketNumber": "INC0001",
		"summary":      "printer on fire again",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(42), body["id"])
	assert.Equal(t, float64(1536), body["dims"])
}

func TestHandler_Embed_ValidationError(t *testing.T) {
	h := NewHandler(
		&stubIngestor{err: &core.TextLengthError{MinLength: 10, ProvidedLength: 5}},
		&stubBulkRunner{}, &stubFinder{}, &stubPinger{},
	)
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/embed", map[string]string{
		"ticketNumber": "INC0001",
		"summary":      "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "at least 10 characters")
	assert.Equal(t, float64(5), body["providedLength"])
}

func TestHandler_Ingest(t *testing.T) {
	bulk := &stubBulkRunner{report: &core.IngestionReport{
		Processed:        25,
		Inserted:         20,
		SkippedDuplicate: 3,
		SkippedShortText: 2,
		Reason:           core.StopExhausted,
	}}
	h := NewHandler(&stubIngestor{}, bulk, &stubFinder{}, &stubPinger{})
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/ingest", map[string]int{"limit": 0})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(20), body["inserted"])
	assert.Equal(t, float64(3), body["skippedDuplicate"])
	assert.Equal(t, float64(2), body["skippedShortText"])
	assert.NotContains(t, body, "note")
}

func TestHandler_Ingest_LimitReached(t *testing.T) {
	bulk := &stubBulkRunner{report: &core.IngestionReport{
		Processed: 10,
		Inserted:  10,
		Reason:    core.StopLimitReached,
	}}
	h := NewHandler(&stubIngestor{}, bulk, &stubFinder{}, &stubPinger{})
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/ingest", map[string]int{"limit": 10})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, bulk.gotLimit)
	assert.Contains(t, body["note"], "limit reached")
}

func TestHandler_Ingest_EmptyBodyMeansUnbounded(t *testing.T) {
	bulk := &stubBulkRunner{report: &core.IngestionReport{Reason: core.StopExhausted}}
	h := NewHandler(&stubIngestor{}, bulk, &stubFinder{}, &stubPinger{})
	router := newTestRouter(h)

	rec, _ := doJSON(t, router, "POST", "/ingest", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, bulk.gotLimit)
}

func TestHandler_Ingest_NegativeLimitRejected(t *testing.T) {
	h := NewHandler(&stubIngestor{}, &stubBulkRunner{}, &stubFinder{}, &stubPinger{})
	router := newTestRouter(h)

	rec, _ := doJSON(t, router, "POST", "/ingest", map[string]int{"limit": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Ingest_SourceErrorCarriesRaw(t *testing.T) {
	bulk := &stubBulkRunner{
		report: &core.IngestionReport{Reason: core.StopSourceError},
		err:    &source.PageError{Page: 2, Raw: "<html>gateway timeout</html>"},
	}
	h := NewHandler(&stubIngestor{}, bulk, &stubFinder{}, &stubPinger{})
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/ingest", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body["raw"], "gateway timeout")
	assert.NotEmpty(t, body["error"])
}

func TestHandler_Search(t *testing.T) {
	finder := &stubFinder{response: &search.Response{
		Neighbors: []*core.Neighbor{
			{TicketNumber: "INC0001", Summary: "east", Distance: 0.1},
			{TicketNumber: "INC0003", Summary: "near east", Distance: 0.2},
		},
		Note: "both east-side incidents",
	}}
	h := NewHandler(&stubIngestor{}, &stubBulkRunner{}, finder, &stubPinger{})
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/search", map[string]any{
		"text": "east side outage",
		"note": true,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "INC0001", first["ticketNumber"])
	assert.Equal(t, "both east-side incidents", body["note"])
}

func TestHandler_Search_ShortQuery(t *testing.T) {
	finder := &stubFinder{err: &core.TextLengthError{MinLength: 10, ProvidedLength: 4}}
	h := NewHandler(&stubIngestor{}, &stubBulkRunner{}, finder, &stubPinger{})
	router := newTestRouter(h)

	rec, body := doJSON(t, router, "POST", "/search", map[string]string{"text": "vpn"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(4), body["providedLength"])
}

func TestHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHandler(&stubIngestor{}, &stubBulkRunner{}, &stubFinder{}, &stubPinger{})
		rec, body := doJSON(t, newTestRouter(h), "GET", "/health", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewHandler(&stubIngestor{}, &stubBulkRunner{}, &stubFinder{}, &stubPinger{err: context.DeadlineExceeded})
		rec, body := doJSON(t, newTestRouter(h), "GET", "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", body["status"])
	})
}
