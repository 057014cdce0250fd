package mock

import "context"

// MockNoteWriter is a test double for ai.NoteWriter.
type MockNoteWriter struct {
	// WriteNoteFunc is called by WriteNote if set.
	// If nil, a fixed placeholder note is returned.
	WriteNoteFunc func(ctx context.Context, query string, summaries []string) (string, error)

	callCount int
}

// NewMockNoteWriter creates a mock note writer.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockNoteWriter() *MockNoteWriter {
	return &MockNoteWriter{}
}

// WriteNote returns a canned note or delegates to WriteNoteFunc.
func (m *MockNoteWriter) WriteNote(ctx context.Context, query string, summaries []string) (string, error) {
	m.callCount++

	if m.WriteNoteFunc != nil {
		return m.WriteNoteFunc(ctx, query, summaries)
	}
	return "mock note", nil
}

// CallCount returns the number of times WriteNote was called.
func (m *MockNoteWriter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockNoteWriter) Reset() {
	m.callCount = 0
	m.WriteNoteFunc = nil
}
