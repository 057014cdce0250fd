package storage

import (
	"context"

	"github.com/poiesic/ticketvec/core"
)

// UpsertResult reports what was written by an upsert.
type UpsertResult struct {
	Id   core.ID // Surrogate id of the stored entry
	Dims int     // Dimensionality of the stored vector
}

// EmbeddingRepository is the vector store gateway. It owns all EmbeddingEntry
// state; callers hold no cache of their own. Implementations must be
// thread-safe and support concurrent access.
type EmbeddingRepository interface {
	// Exists reports whether an entry with the given ticket number is stored.
	Exists(ctx context.Context, ticketNumber string) (bool, error)

	// Upsert inserts or replaces the entry keyed by its ticket number.
	// Later writes for the same key replace summary, notes, vector and
	// timestamp; a duplicate row is never created. Conflict resolution is
	// last-write-wins via the store's native upsert.
	Upsert(ctx context.Context, entry *core.EmbeddingEntry) (*UpsertResult, error)

	// NearestNeighbors returns up to limit entries closest to the given
	// vector, ordered by ascending distance.
	NearestNeighbors(ctx context.Context, vector []float32, limit int) ([]*core.Neighbor, error)

	// Ping verifies the underlying store is reachable.
	Ping(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
