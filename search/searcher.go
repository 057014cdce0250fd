package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/ticketvec/ai"
	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/storage"
)

// DefaultLimit is the number of neighbors returned when none is configured.
const DefaultLimit = 5

// Searcher answers nearest-neighbor queries over the stored ticket
// embeddings, optionally summarising the hits with a generative note.
type Searcher struct {
	repository storage.EmbeddingRepository
	embedder   ai.Embedder
	noteWriter ai.NoteWriter
	policy     core.TextPolicy
	limit      int
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLimit sets the number of neighbors returned per query.
// Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit > 0 {
			s.limit = limit
		}
		return nil
	}
}

// WithPolicy sets the text policy used to validate query text.
// Default is core.DefaultTextPolicy().
func WithPolicy(policy core.TextPolicy) Option {
	return func(s *Searcher) error {
		s.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.EmbeddingRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   provider.Embedder(),
		noteWriter: provider.NoteWriter(),
		policy:     core.DefaultTextPolicy(),
		limit:      DefaultLimit,
		logger:     slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Response is the outcome of one similarity query.
type Response struct {
	Neighbors []*core.Neighbor
	Note      string // Empty unless a note was requested and produced
}

// Find embeds the query text and returns the closest stored tickets in
// ascending distance order. Query text is validated under the same policy as
// ingestion; short queries fail with a *core.TextLengthError and make no
// provider call.
func (s *Searcher) Find(ctx context.Context, query string, withNote bool) (*Response, error) {
	if err := s.policy.Validate(query); err != nil {
		return nil, err
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	neighbors, err := s.repository.NearestNeighbors(ctx, vector, s.limit)
	if err != nil {
		s.logger.Error("error querying for similar tickets", "err", err)
		return nil, err
	}

	response := &Response{Neighbors: neighbors}

	if withNote && len(neighbors) > 0 {
		summaries := make([]string, len(neighbors))
		for i, n := range neighbors {
			summaries[i] = n.Summary
		}

		note, err := s.noteWriter.WriteNote(ctx, query, summaries)
		if err != nil {
			// The note is best-effort; results are still useful without it.
			s.logger.Warn("note generation failed", "err", err)
		} else {
			response.Note = note
		}
	}

	return response, nil
}
