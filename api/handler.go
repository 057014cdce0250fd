// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/poiesic/ticketvec/ai"
	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/ingestion"
	"github.com/poiesic/ticketvec/search"
	"github.com/poiesic/ticketvec/source"
	"github.com/poiesic/ticketvec/storage"
)

// RecordIngestor is the single-record ingest operation behind POST /embed.
type RecordIngestor interface {
	Ingest(ctx context.Context, ticketNumber, summary, notes string) (*ingestion.Result, error)
}

// BulkRunner is the bulk ingestion pass behind POST /ingest.
type BulkRunner interface {
	Run(ctx context.Context, limit int) (*core.IngestionReport, error)
}

// Finder is the similarity query behind POST /search.
type Finder interface {
	Find(ctx context.Context, query string, withNote bool) (*search.Response, error)
}

// Pinger exposes store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler manages HTTP request handlers.
type Handler struct {
	ingestor RecordIngestor
	bulk     BulkRunner
	finder   Finder
	store    Pinger
}

// NewHandler creates a new HTTP handler.
func NewHandler(ingestor RecordIngestor, bulk BulkRunner, finder Finder, store Pinger) *Handler {
	return &Handler{
		ingestor: ingestor,
		bulk:     bulk,
		finder:   finder,
		store:    store,
	}
}

// SetupRoutes configures API routes.
func SetupRoutes(router *mux.Router, h *Handler) {
	router.HandleFunc("/embed", h.Embed).Methods("POST")
	router.HandleFunc("/ingest", h.Ingest).Methods("POST")
	router.HandleFunc("/search", h.Search).Methods("POST")
	router.HandleFunc("/health", h.Health).Methods("GET")
}

// Embed handles POST /embed: the single-record ingest operation.
func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TicketNumber string `json:"ticketNumber"`
		Summary      string `json:"summary"`
		Notes        string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), req.TicketNumber, req.Summary, req.Notes)
	if err != nil {
		var lenErr *core.TextLengthError
		switch {
		case errors.As(err, &lenErr):
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":          lenErr.Error(),
				"providedLength": lenErr.ProvidedLength,
			})
		case errors.Is(err, core.ErrMissingTicketNumber):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ai.ErrProvider), errors.Is(err, storage.ErrStore):
			respondError(w, http.StatusBadGateway, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"id":   result.Id,
		"dims": result.Dims,
	})
}

// Ingest handles POST /ingest: one bulk ingestion pass.
// The optional limit caps records processed; 0 or absent means unbounded.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit int `json:"limit"`
	}

	// An empty body means an unbounded run.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit < 0 {
		respondError(w, http.StatusBadRequest, "limit must be non-negative")
		return
	}

	report, err := h.bulk.Run(r.Context(), req.Limit)
	if err != nil {
		payload := map[string]any{"error": err.Error()}
		var pageErr *source.PageError
		if errors.As(err, &pageErr) {
			payload["raw"] = pageErr.Raw
		}
		respondJSON(w, http.StatusBadGateway, payload)
		return
	}

	body := map[string]any{
		"ok":               true,
		"processed":        report.Processed,
		"inserted":         report.Inserted,
		"skippedDuplicate": report.SkippedDuplicate,
		"skippedShortText": report.SkippedShortText,
	}
	if report.Reason == core.StopLimitReached {
		body["note"] = "stopped early: processing limit reached"
	}
	if len(report.Failures) > 0 {
		body["failures"] = report.Failures
	}

	respondJSON(w, http.StatusOK, body)
}

// Search handles POST /search: a nearest-neighbor query.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		Note bool   `json:"note"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.finder.Find(r.Context(), req.Text, req.Note)
	if err != nil {
		var lenErr *core.TextLengthError
		switch {
		case errors.As(err, &lenErr):
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":          lenErr.Error(),
				"providedLength": lenErr.ProvidedLength,
			})
		case errors.Is(err, ai.ErrProvider), errors.Is(err, storage.ErrStore):
			respondError(w, http.StatusBadGateway, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	results := make([]map[string]any, len(resp.Neighbors))
	for i, n := range resp.Neighbors {
		results[i] = map[string]any{
			"ticketNumber": n.TicketNumber,
			"summary":      n.Summary,
			"notes":        n.Notes,
			"distance":     n.Distance,
		}
	}

	body := map[string]any{"ok": true, "results": results}
	if resp.Note != "" {
		body["note"] = resp.Note
	}
	respondJSON(w, http.StatusOK, body)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
