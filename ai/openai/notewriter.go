package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/ticketvec/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const noteSystemPrompt = `You are a support-desk assistant. Given a query and the ` +
	`summaries of the most similar past tickets, write a short note (2-4 sentences) ` +
	`for the operator describing what these tickets have in common and anything ` +
	`useful for resolving the query. Plain text only.`

// NoteWriter implements ai.NoteWriter using OpenAI-compatible chat APIs.
type NoteWriter struct {
	client llms.Model
	logger *slog.Logger
}

// newNoteWriter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newNoteWriter(config *ai.Config) (*NoteWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &NoteWriter{
		client: client,
		logger: slog.Default().With("component", "openai-notewriter"),
	}, nil
}

// NewNoteWriter creates a new note writer using the provided configuration.
//
// Returns ai.NoteWriter interface to enforce abstraction.
func NewNoteWriter(config *ai.Config) (ai.NoteWriter, error) {
	return newNoteWriter(config)
}

// WriteNote summarises the matched ticket summaries with respect to the query.
func (w *NoteWriter) WriteNote(ctx context.Context, query string, summaries []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Query: ")
	sb.WriteString(query)
	sb.WriteString("\n\nSimilar tickets:\n")
	for i, s := range summaries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}

	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(noteSystemPrompt),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(sb.String()),
			},
		},
	}

	response, err := w.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		w.logger.Error("failed to generate note", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrProvider, err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ai.ErrProvider)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
