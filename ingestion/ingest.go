package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/ticketvec/ai"
	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/storage"
)

// Result reports what a single-record ingest stored.
type Result struct {
	Id   core.ID // Surrogate id of the stored entry
	Dims int     // Dimensionality of the stored vector
}

// Ingestor performs the single-record ingest operation: validate the ticket
// text, embed it, and upsert the entry keyed by ticket number. It is used
// both for direct embed requests and as the per-record step of bulk
// ingestion. Exactly one provider call and one store write happen per
// invocation; there are no retries, and a failure at either step aborts the
// operation and surfaces the error to the caller.
type Ingestor struct {
	repository storage.EmbeddingRepository
	embedder   ai.Embedder
	policy     core.TextPolicy
	logger     *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithIngestorLogger sets a custom logger.
// Default is slog.Default().
func WithIngestorLogger(logger *slog.Logger) IngestorOption {
	return func(i *Ingestor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewIngestor creates a single-record ingestor with the given text policy.
func NewIngestor(repository storage.EmbeddingRepository, embedder ai.Embedder, policy core.TextPolicy, opts ...IngestorOption) (*Ingestor, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ing := &Ingestor{
		repository: repository,
		embedder:   embedder,
		policy:     policy,
		logger:     slog.Default().With("component", "ingestor"),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing, nil
}

// Ingest embeds the ticket's effective text and upserts it into the store.
//
// Validation happens first: if the trimmed effective text is below the
// policy's minimum length, a *core.TextLengthError is returned and no
// provider call is made. Provider failures surface as ai.ErrProvider, store
// failures as storage.ErrStore.
func (ing *Ingestor) Ingest(ctx context.Context, ticketNumber, summary, notes string) (*Result, error) {
	if ticketNumber == "" {
		return nil, core.ErrMissingTicketNumber
	}

	text := ing.policy.EffectiveText(summary, notes)
	if err := ing.policy.Validate(text); err != nil {
		return nil, err
	}

	vector, err := ing.embedder.EmbedText(ctx, text)
	if err != nil {
		ing.logger.Error("embedding failed", "ticket", ticketNumber, "err", err)
		return nil, err
	}

	upserted, err := ing.repository.Upsert(ctx, &core.EmbeddingEntry{
		TicketNumber: ticketNumber,
		Summary:      summary,
		Notes:        notes,
		Vector:       vector,
	})
	if err != nil {
		ing.logger.Error("upsert failed", "ticket", ticketNumber, "err", err)
		return nil, err
	}

	ing.logger.Debug("ingested ticket", "ticket", ticketNumber, "dims", upserted.Dims)
	return &Result{Id: upserted.Id, Dims: upserted.Dims}, nil
}
