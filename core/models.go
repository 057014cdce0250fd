package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a surrogate identifier for stored embedding entries.
// It is derived deterministically from the ticket number.
type ID uint64

// IDFromTicketNumber generates a deterministic ID from a ticket number using
// BLAKE2b hashing. The same ticket number always produces the same ID, which
// keeps upserts stable across ingestion runs.
func IDFromTicketNumber(ticketNumber string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(ticketNumber))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TicketRecord is one support case as returned by the external ticket source.
// It is immutable once fetched and scoped to a single ingestion pass.
type TicketRecord struct {
	TicketNumber string // Opaque stable identifier, required
	Summary      string // Free text, may be empty
	Notes        string // Optional free text
}

// EmbeddingEntry is the persisted form of an ingested ticket.
// At most one entry exists per TicketNumber; re-ingesting the same ticket
// replaces summary, notes, vector and timestamp rather than creating a row.
type EmbeddingEntry struct {
	Id           ID
	TicketNumber string
	Summary      string
	Notes        string
	Vector       []float32 // Fixed dimensionality per provider/model pair
	CreatedAt    time.Time
}

// Neighbor is one hit from a nearest-neighbor query, ordered by ascending
// distance from the query vector.
type Neighbor struct {
	TicketNumber string
	Summary      string
	Notes        string
	Distance     float32
}

// StopReason explains why a bulk ingestion pass terminated.
type StopReason string

const (
	// StopExhausted means the source returned an empty page.
	StopExhausted StopReason = "exhausted"
	// StopLimitReached means the configured processing cap was hit.
	StopLimitReached StopReason = "limitReached"
	// StopSourceError means a page fetch failed or returned a malformed payload.
	StopSourceError StopReason = "sourceError"
)

// MaxReportedFailures bounds the per-record failure detail kept in a report.
const MaxReportedFailures = 32

// RecordFailure captures why a single ticket could not be ingested.
type RecordFailure struct {
	TicketNumber string
	Reason       string
}

// IngestionReport summarises one bulk ingestion invocation.
// It is constructed fresh per pass, returned once, and never persisted.
type IngestionReport struct {
	Processed        int
	Inserted         int
	SkippedDuplicate int
	SkippedShortText int
	Reason           StopReason
	Failures         []RecordFailure // Bounded by MaxReportedFailures
}

// AddFailure appends a failure detail, dropping it once the bound is hit.
// Counters are unaffected; the bound only limits retained detail.
func (r *IngestionReport) AddFailure(ticketNumber, reason string) {
	if len(r.Failures) >= MaxReportedFailures {
		return
	}
	r.Failures = append(r.Failures, RecordFailure{TicketNumber: ticketNumber, Reason: reason})
}
