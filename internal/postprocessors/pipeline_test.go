package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, 0, p.Len())

	p.Add(&mockProcessor{name: "test"})
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"test"}, p.Names())
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), &domain.Document{ID: "d", Content: "text"})

	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_Process_ChainsOutput(t *testing.T) {
	first := []domain.Chunk{{ID: "d_0", Content: "first"}}

	p := NewPipeline(
		&mockProcessor{name: "chunker", chunks: first},
		&mockProcessor{name: "passthrough"},
	)

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "d"})

	require.NoError(t, err)
	assert.Equal(t, first, chunks)
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")
	p := NewPipeline(&mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), &domain.Document{ID: "d"})

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), "processor failing")
}

func TestPipeline_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(&mockProcessor{name: "x"}).Process(ctx, &domain.Document{ID: "d"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultPipeline(t *testing.T) {
	p, err := DefaultPipeline(domain.ChunkingSettings{Size: 20, OverlapWords: 0})
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())

	chunks, err := p.Process(context.Background(), &domain.Document{
		ID:      "doc",
		Content: "First sentence. Second sentence.",
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First sentence.", chunks[0].Content)
	assert.Equal(t, "Second sentence.", chunks[1].Content)
}
