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


package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/storage"
)

// EmbeddingRepository implements storage.EmbeddingRepository on PostgreSQL
// with the pgvector extension.
type EmbeddingRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a repository on top of an open backend.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}
	return &EmbeddingRepository{
		backend: backend,
		logger:  slog.Default().With("component", "postgres-embeddings"),
	}, nil
}

// Exists reports whether an entry with the given ticket number is stored.
func (r *EmbeddingRepository) Exists(ctx context.Context, ticketNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ticket_embeddings WHERE ticket_number = $1)`

	if err := r.backend.db.GetContext(ctx, &exists, query, ticketNumber); err != nil {
		r.logger.Error("duplicate check failed", "ticket", ticketNumber, "err", err)
		return false, fmt.Errorf("%w: %w", storage.ErrStore, err)
	}
	return exists, nil
}

// Upsert inserts or replaces the entry keyed by ticket number.
// Uses the store's native ON CONFLICT upsert, so later writes replace
// summary, notes, vector and timestamp without creating a duplicate row.
func (r *EmbeddingRepository) Upsert(ctx context.Context, entry *core.EmbeddingEntry) (*storage.UpsertResult, error) {
	if entry == nil || entry.TicketNumber == "" {
		return nil, fmt.Errorf("%w: %w", storage.ErrStore, core.ErrMissingTicketNumber)
	}
	if len(entry.Vector) == 0 {
		return nil, fmt.Errorf("%w: %w", storage.ErrStore, storage.ErrEmptyVector)
	}

	id := entry.Id
	if id == 0 {
		id = core.IDFromTicketNumber(entry.TicketNumber)
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO ticket_embeddings (id, ticket_number, summary, notes, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticket_number) DO UPDATE
		SET summary = EXCLUDED.summary,
		    notes = EXCLUDED.notes,
		    embedding = EXCLUDED.embedding,
		    created_at = EXCLUDED.created_at
	`

	_, err := r.backend.db.ExecContext(ctx, query,
		int64(id),
		entry.TicketNumber,
		entry.Summary,
		entry.Notes,
		pgvector.NewVector(entry.Vector),
		createdAt,
	)
	if err != nil {
		r.logger.Error("upsert failed", "ticket", entry.TicketNumber, "err", err)
		return nil, fmt.Errorf("%w: %w", storage.ErrStore, err)
	}

	return &storage.UpsertResult{Id: id, Dims: len(entry.Vector)}, nil
}

// NearestNeighbors returns up to limit entries ordered by ascending cosine
// distance from the query vector.
func (r *EmbeddingRepository) NearestNeighbors(ctx context.Context, vector []float32, limit int) ([]*core.Neighbor, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: %w", storage.ErrStore, storage.ErrEmptyVector)
	}
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT ticket_number, summary, notes, embedding <=> $1 AS distance
		FROM ticket_embeddings
		ORDER BY distance ASC
		LIMIT $2
	`

	rows := []struct {
		TicketNumber string  `db:"ticket_number"`
		Summary      string  `db:"summary"`
		Notes        string  `db:"notes"`
		Distance     float32 `db:"distance"`
	}{}

	if err := r.backend.db.SelectContext(ctx, &rows, query, pgvector.NewVector(vector), limit); err != nil {
		r.logger.Error("nearest-neighbor query failed", "err", err)
		return nil, fmt.Errorf("%w: %w", storage.ErrStore, err)
	}

	neighbors := make([]*core.Neighbor, len(rows))
	for i, row := range rows {
		neighbors[i] = &core.Neighbor{
			TicketNumber: row.TicketNumber,
			Summary:      row.Summary,
			Notes:        row.Notes,
			Distance:     row.Distance,
		}
	}
	return neighbors, nil
}

// Ping verifies the backing database is reachable.
func (r *EmbeddingRepository) Ping(ctx context.Context) error {
	return r.backend.Ping(ctx)
}

// Close is a no-op; the backend owns the connection pool.
func (r *EmbeddingRepository) Close() error {
	return nil
}
