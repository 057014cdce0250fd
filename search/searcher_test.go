package search

import (
	"context"
	"errors"
	"testing"

	aimock "github.com/poiesic/ticketvec/ai/mock"
	"github.com/poiesic/ticketvec/core"
	storemock "github.com/poiesic/ticketvec/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRepo() *storemock.EmbeddingRepository {
	repo := storemock.NewEmbeddingRepository()
	repo.Seed(&core.EmbeddingEntry{TicketNumber: "INC0001", Summary: "east", Vector: []float32{1, 0}})
	repo.Seed(&core.EmbeddingEntry{TicketNumber: "INC0002", Summary: "north", Vector: []float32{0, 1}})
	repo.Seed(&core.EmbeddingEntry{TicketNumber: "INC0003", Summary: "near east", Vector: []float32{0.9, 0.1}})
	return repo
}

func TestSearcher_Find(t *testing.T) {
	repo := seededRepo()

	embedder := aimock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	provider := aimock.NewMockProviderWithServices(embedder, aimock.NewMockNoteWriter())

	s, err := NewSearcher(repo, provider, WithLimit(2))
	require.NoError(t, err)

	resp, err := s.Find(context.Background(), "east side outage", false)
	require.NoError(t, err)
	require.Len(t, resp.Neighbors, 2)

	assert.Equal(t, "INC0001", resp.Neighbors[0].TicketNumber)
	assert.Equal(t, "INC0003", resp.Neighbors[1].TicketNumber)
	assert.LessOrEqual(t, resp.Neighbors[0].Distance, resp.Neighbors[1].Distance)
	assert.Empty(t, resp.Note)
}

func TestSearcher_Find_ShortQueryRejected(t *testing.T) {
	provider := aimock.NewMockProvider()
	s, err := NewSearcher(seededRepo(), provider)
	require.NoError(t, err)

	_, err = s.Find(context.Background(), "short", false)
	require.Error(t, err)

	var lenErr *core.TextLengthError
	assert.True(t, errors.As(err, &lenErr))

	concrete := provider.(*aimock.MockProvider)
	assert.Equal(t, 0, concrete.GetMockEmbedder().CallCount(), "short query must not reach the provider")
}

func TestSearcher_Find_WithNote(t *testing.T) {
	noteWriter := aimock.NewMockNoteWriter()
	noteWriter.WriteNoteFunc = func(ctx context.Context, query string, summaries []string) (string, error) {
		assert.Len(t, summaries, 3)
		return "these tickets all describe east-side incidents", nil
	}
	provider := aimock.NewMockProviderWithServices(aimock.NewMockEmbedder(), noteWriter)

	s, err := NewSearcher(seededRepo(), provider)
	require.NoError(t, err)

	resp, err := s.Find(context.Background(), "east side outage", true)
	require.NoError(t, err)
	assert.Equal(t, "these tickets all describe east-side incidents", resp.Note)
	assert.Equal(t, 1, noteWriter.CallCount())
}

func TestSearcher_Find_NoteFailureDegrades(t *testing.T) {
	noteWriter := aimock.NewMockNoteWriter()
	noteWriter.WriteNoteFunc = func(ctx context.Context, query string, summaries []string) (string, error) {
		return "", errors.New("chat model unavailable")
	}
	provider := aimock.NewMockProviderWithServices(aimock.NewMockEmbedder(), noteWriter)

	s, err := NewSearcher(seededRepo(), provider)
	require.NoError(t, err)

	resp, err := s.Find(context.Background(), "east side outage", true)
	require.NoError(t, err, "note failure must not fail the query")
	assert.NotEmpty(t, resp.Neighbors)
	assert.Empty(t, resp.Note)
}

func TestNewSearcher_Validation(t *testing.T) {
	_, err := NewSearcher(nil, aimock.NewMockProvider())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewSearcher(storemock.NewEmbeddingRepository(), nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}
