package stats

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	stats *domain.IndexStats
	err   error
	calls int
}

func (m *mockIndexService) Open(context.Context) error  { return nil }
func (m *mockIndexService) Close(context.Context) error { return nil }
func (m *mockIndexService) Clear(context.Context) error { return nil }

func (m *mockIndexService) AddDocument(context.Context, *domain.Document, []domain.Chunk) (int, error) {
	return 0, nil
}

func (m *mockIndexService) Retrieve(context.Context, string, int) ([]domain.Candidate, error) {
	return nil, nil
}

func (m *mockIndexService) Stats(context.Context) (*domain.IndexStats, error) {
	m.calls++
	return m.stats, m.err
}

func sampleStats() *domain.IndexStats {
	return &domain.IndexStats{
		TotalChunks:    12345,
		TotalDocuments: 321,
		IndexSizeBytes: 2_500_000,
		Dimension:      768,
		Model:          "nomic-embed-text",
	}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	require.NotNil(t, view)
	assert.False(t, view.ready)
	assert.Nil(t, view.Stats())
	assert.Nil(t, view.Init())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	assert.NotNil(t, view.styles)
}

func TestView_Load(t *testing.T) {
	svc := &mockIndexService{stats: sampleStats()}
	view := NewView(nil, svc).WithContext(context.Background())

	cmd := view.Load()
	require.NotNil(t, cmd)
	assert.True(t, view.Loading())

	msg, ok := cmd().(messages.StatsLoaded)
	require.True(t, ok)
	assert.Equal(t, 1, svc.calls)

	view.Update(msg)

	assert.False(t, view.Loading())
	assert.Equal(t, 321, view.Stats().TotalDocuments)
	assert.NoError(t, view.Err())
}

func TestView_Load_NoService(t *testing.T) {
	view := NewView(nil, nil)

	msg, ok := view.Load()().(messages.StatsLoaded)

	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, ErrNoIndexService)
}

func TestView_Load_Error(t *testing.T) {
	view := NewView(nil, &mockIndexService{err: domain.ErrIndexClosed})

	view.Update(view.Load()())

	assert.ErrorIs(t, view.Err(), domain.ErrIndexClosed)
	assert.Contains(t, view.View(), "Error: ")
}

func TestView_Update_Keys(t *testing.T) {
	t.Run("r refreshes", func(t *testing.T) {
		svc := &mockIndexService{stats: sampleStats()}
		view := NewView(nil, svc)

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

		require.NotNil(t, cmd)
		cmd()
		assert.Equal(t, 1, svc.calls)
	})

	t.Run("esc returns to menu", func(t *testing.T) {
		view := NewView(nil, nil)

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

		require.NotNil(t, cmd)
		changed, ok := cmd().(messages.ViewChanged)
		require.True(t, ok)
		assert.Equal(t, messages.ViewMenu, changed.View)
	})

	t.Run("other keys ignored", func(t *testing.T) {
		view := NewView(nil, nil)

		_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

		assert.Nil(t, cmd)
	})
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Update_ErrorOccurred(t *testing.T) {
	view := NewView(nil, nil)
	err := errors.New("boom")

	view.Update(messages.ErrorOccurred{Err: err})

	assert.Equal(t, err, view.Err())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(messages.StatsLoaded{Stats: sampleStats()})

	output := view.View()

	assert.Contains(t, output, "Index Statistics")
	assert.Contains(t, output, "321")
	assert.Contains(t, output, "12,345")
	assert.Contains(t, output, "768")
	assert.Contains(t, output, "nomic-embed-text")
	assert.Contains(t, output, "2.5 MB")
}

func TestView_View_States(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		assert.Contains(t, NewView(nil, nil).View(), "No statistics loaded")
	})

	t.Run("loading", func(t *testing.T) {
		view := NewView(nil, &mockIndexService{})
		view.Load()

		assert.Contains(t, view.View(), "Loading statistics...")
	})

	t.Run("empty index", func(t *testing.T) {
		view := NewView(nil, nil)
		view.Update(messages.StatsLoaded{Stats: &domain.IndexStats{Dimension: 768}})

		assert.Contains(t, view.View(), "The index is empty")
	})

	t.Run("no model", func(t *testing.T) {
		view := NewView(nil, nil)
		s := sampleStats()
		s.Model = ""
		view.Update(messages.StatsLoaded{Stats: s})

		assert.Contains(t, view.View(), "(not configured)")
	})
}
