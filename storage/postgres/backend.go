package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

// schema bootstraps the embeddings table. The vector dimensionality is fixed
// at table-creation time by the provider/model pair in use.
const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS ticket_embeddings (
    id            BIGINT PRIMARY KEY,
    ticket_number TEXT NOT NULL UNIQUE,
    summary       TEXT NOT NULL,
    notes         TEXT NOT NULL DEFAULT '',
    embedding     vector(%d) NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ticket_embeddings_embedding_idx
    ON ticket_embeddings USING hnsw (embedding vector_cosine_ops);
`

// Backend wraps a PostgreSQL connection pool and provides low-level operations.
type Backend struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// OpenBackend connects to PostgreSQL and ensures the schema exists.
// dims is the vector dimensionality of the configured embedding model; it is
// baked into the table definition and must stay consistent for all entries.
func OpenBackend(connectionString string, dims int) (*Backend, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("vector dimensionality must be positive, got %d", dims)
	}

	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	b := &Backend{
		db:     db,
		logger: slog.Default().With("component", "postgres-backend"),
	}

	if _, err := db.Exec(fmt.Sprintf(schema, dims)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	b.logger.Debug("schema ready", "dims", dims)
	return b, nil
}

// Ping verifies the database is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	b.logger.Debug("closing postgres backend")
	return b.db.Close()
}
