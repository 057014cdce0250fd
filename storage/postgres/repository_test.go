package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/poiesic/ticketvec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests require a PostgreSQL instance with the pgvector
// extension. Set TICKETVEC_TEST_DSN to run them, e.g.:
//
//	TICKETVEC_TEST_DSN="postgres://localhost/ticketvec_test?sslmode=disable" go test ./storage/postgres/
func testBackend(t *testing.T) *Backend {
	t.Helper()

	dsn := os.Getenv("TICKETVEC_TEST_DSN")
	if dsn == "" {
		t.Skip("TICKETVEC_TEST_DSN not set; skipping postgres integration tests")
	}

	backend, err := OpenBackend(dsn, 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		backend.db.Exec(`DROP TABLE IF EXISTS ticket_embeddings`)
		backend.Close()
	})
	return backend
}

func TestEmbeddingRepository_UpsertAndExists(t *testing.T) {
	repo, err := NewEmbeddingRepository(testBackend(t))
	require.NoError(t, err)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "INC0001")
	require.NoError(t, err)
	assert.False(t, exists)

	result, err := repo.Upsert(ctx, &core.EmbeddingEntry{
		TicketNumber: "INC0001",
		Summary:      "printer on fire",
		Vector:       []float32{0.1, 0.2, 0.3, 0.4},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Dims)
	assert.Equal(t, core.IDFromTicketNumber("INC0001"), result.Id)

	exists, err = repo.Exists(ctx, "INC0001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEmbeddingRepository_UpsertReplaces(t *testing.T) {
	repo, err := NewEmbeddingRepository(testBackend(t))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &core.EmbeddingEntry{
		TicketNumber: "INC0002",
		Summary:      "original summary",
		Vector:       []float32{1, 0, 0, 0},
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, &core.EmbeddingEntry{
		TicketNumber: "INC0002",
		Summary:      "replacement summary",
		Notes:        "now with notes",
		Vector:       []float32{0, 1, 0, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	var count int
	require.NoError(t, repo.backend.db.Get(&count,
		`SELECT count(*) FROM ticket_embeddings WHERE ticket_number = $1`, "INC0002"))
	assert.Equal(t, 1, count, "upsert must never create a duplicate row")

	var summary string
	require.NoError(t, repo.backend.db.Get(&summary,
		`SELECT summary FROM ticket_embeddings WHERE ticket_number = $1`, "INC0002"))
	assert.Equal(t, "replacement summary", summary)
}

func TestEmbeddingRepository_NearestNeighbors(t *testing.T) {
	repo, err := NewEmbeddingRepository(testBackend(t))
	require.NoError(t, err)
	ctx := context.Background()

	entries := []*core.EmbeddingEntry{
		{TicketNumber: "INC0010", Summary: "east", Vector: []float32{1, 0, 0, 0}},
		{TicketNumber: "INC0011", Summary: "north", Vector: []float32{0, 1, 0, 0}},
		{TicketNumber: "INC0012", Summary: "near east", Vector: []float32{0.9, 0.1, 0, 0}},
	}
	for _, e := range entries {
		_, err := repo.Upsert(ctx, e)
		require.NoError(t, err)
	}

	neighbors, err := repo.NearestNeighbors(ctx, []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)

	assert.Equal(t, "INC0010", neighbors[0].TicketNumber)
	assert.Equal(t, "INC0012", neighbors[1].TicketNumber)
	assert.LessOrEqual(t, neighbors[0].Distance, neighbors[1].Distance)
}
