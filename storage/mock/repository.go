package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/storage"
)

// EmbeddingRepository is an in-memory test double for
// storage.EmbeddingRepository. It counts calls and supports behavior
// injection via function fields, mirroring the ai/mock doubles.
type EmbeddingRepository struct {
	// ExistsFunc overrides Exists if set.
	ExistsFunc func(ctx context.Context, ticketNumber string) (bool, error)

	// UpsertFunc overrides Upsert if set.
	UpsertFunc func(ctx context.Context, entry *core.EmbeddingEntry) (*storage.UpsertResult, error)

	mu          sync.Mutex
	entries     map[string]*core.EmbeddingEntry
	existsCount int
	upsertCount int
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates an empty in-memory repository.
// Note: Returns concrete type to allow test assertions.
func NewEmbeddingRepository() *EmbeddingRepository {
	return &EmbeddingRepository{
		entries: make(map[string]*core.EmbeddingEntry),
	}
}

// Exists reports whether the ticket is stored.
func (m *EmbeddingRepository) Exists(ctx context.Context, ticketNumber string) (bool, error) {
	m.mu.Lock()
	m.existsCount++
	m.mu.Unlock()

	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, ticketNumber)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[ticketNumber]
	return ok, nil
}

// Upsert stores the entry keyed by ticket number, replacing any prior entry.
func (m *EmbeddingRepository) Upsert(ctx context.Context, entry *core.EmbeddingEntry) (*storage.UpsertResult, error) {
	m.mu.Lock()
	m.upsertCount++
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, entry)
	}

	if entry == nil || entry.TicketNumber == "" {
		return nil, core.ErrMissingTicketNumber
	}
	if len(entry.Vector) == 0 {
		return nil, storage.ErrEmptyVector
	}

	stored := *entry
	if stored.Id == 0 {
		stored.Id = core.IDFromTicketNumber(stored.TicketNumber)
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[stored.TicketNumber] = &stored

	return &storage.UpsertResult{Id: stored.Id, Dims: len(stored.Vector)}, nil
}

// NearestNeighbors ranks stored entries by squared euclidean distance.
// Good enough for tests; production ranking is the store's native operator.
func (m *EmbeddingRepository) NearestNeighbors(ctx context.Context, vector []float32, limit int) ([]*core.Neighbor, error) {
	if len(vector) == 0 {
		return nil, storage.ErrEmptyVector
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	neighbors := make([]*core.Neighbor, 0, len(m.entries))
	for _, entry := range m.entries {
		var dist float32
		for i := range vector {
			if i >= len(entry.Vector) {
				break
			}
			d := vector[i] - entry.Vector[i]
			dist += d * d
		}
		neighbors = append(neighbors, &core.Neighbor{
			TicketNumber: entry.TicketNumber,
			Summary:      entry.Summary,
			Notes:        entry.Notes,
			Distance:     dist,
		})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if limit > 0 && len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors, nil
}

// Ping always succeeds.
func (m *EmbeddingRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *EmbeddingRepository) Close() error {
	return nil
}

// Seed inserts an entry directly, bypassing counters. Useful for arranging
// pre-existing state in tests.
func (m *EmbeddingRepository) Seed(entry *core.EmbeddingEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *entry
	if stored.Id == 0 {
		stored.Id = core.IDFromTicketNumber(stored.TicketNumber)
	}
	m.entries[stored.TicketNumber] = &stored
}

// Len returns the number of stored entries.
func (m *EmbeddingRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// ExistsCount returns how many times Exists was called.
func (m *EmbeddingRepository) ExistsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existsCount
}

// UpsertCount returns how many times Upsert was called.
func (m *EmbeddingRepository) UpsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCount
}
