package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when an embedding repository is not provided.
	ErrRepositoryRequired = errors.New("embedding repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrSourceRequired is returned when a ticket source is not provided.
	ErrSourceRequired = errors.New("ticket source required")

	// ErrIngestorRequired is returned when a single-record ingestor is not provided.
	ErrIngestorRequired = errors.New("ingestor required")
)
