package ai

import "context"

// Embedder converts ticket text into a fixed-dimension vector via a remote
// embeddings provider. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The vector's dimensionality is fixed by the provider/model pair and
	// must be consistent across calls for entries used in one similarity
	// query. Returns a provider error if the call fails or the response is
	// not a well-formed vector.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// NoteWriter produces a short operator-facing note summarising a set of
// similar tickets. It is a single stateless generative-text call with no
// control logic of its own.
type NoteWriter interface {
	// WriteNote summarises the given ticket summaries with respect to the
	// query. Returns the note text, or an error on transport failure.
	WriteNote(ctx context.Context, query string, summaries []string) (string, error)
}

// Provider aggregates the AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// NoteWriter instances sharing configuration and transport.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// NoteWriter returns the generative note-writing service.
	// The returned NoteWriter is safe for concurrent use.
	NoteWriter() NoteWriter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
