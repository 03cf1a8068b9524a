package ask

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

type mockChatService struct {
	askFunc func(ctx context.Context, query string) (*domain.ChatResponse, error)
}

func (m *mockChatService) Ask(ctx context.Context, query string) (*domain.ChatResponse, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, query)
	}
	return &domain.ChatResponse{Sources: []domain.ChatSource{}}, nil
}

func sampleResponse() *domain.ChatResponse {
	return &domain.ChatResponse{
		Text: "Goroutines are lightweight threads [1]. Channels connect them [2].",
		Sources: []domain.ChatSource{
			{URL: "https://go.dev/tour/concurrency/1", Title: "Goroutines"},
			{URL: "https://go.dev/tour/concurrency/2"},
		},
	}
}

func readyView(svc *mockChatService) *View {
	var view *View
	if svc == nil {
		view = NewView(nil, nil, nil)
	} else {
		view = NewView(nil, nil, svc)
	}
	view.SetDimensions(100, 40)
	return view
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, nil)

	require.NotNil(t, view)
	assert.False(t, view.Ready())
	assert.True(t, view.InputFocused())
	assert.Nil(t, view.Response())
	assert.NotNil(t, view.Init())
}

func TestView_Enter_Asks(t *testing.T) {
	var asked string
	svc := &mockChatService{askFunc: func(_ context.Context, q string) (*domain.ChatResponse, error) {
		asked = q
		return sampleResponse(), nil
	}}
	view := readyView(svc)
	view.SetQuestion(" what are goroutines? ")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.AnswerCompleted)
	require.True(t, ok)
	assert.Equal(t, "what are goroutines?", asked)
	assert.Equal(t, "what are goroutines?", msg.Question)
	assert.NoError(t, msg.Err)
}

func TestView_Enter_Blank(t *testing.T) {
	view := readyView(&mockChatService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Enter_NoChatService(t *testing.T) {
	view := readyView(nil)
	view.SetQuestion("anything")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	view.Update(cmd())

	assert.ErrorIs(t, view.Err(), ErrNoChatService)
	assert.Contains(t, view.View(), "chat is not configured")
}

func TestView_AnswerCompleted(t *testing.T) {
	view := readyView(nil)

	view.Update(messages.AnswerCompleted{Question: "what are goroutines?", Response: sampleResponse()})

	assert.False(t, view.InputFocused())
	assert.Equal(t, "what are goroutines?", view.Question())
	require.NotNil(t, view.Response())

	output := view.View()
	assert.Contains(t, output, "Goroutines are lightweight threads [1].")
	assert.Contains(t, output, "[1] Goroutines")
	assert.Contains(t, output, "[2] (Untitled)")
	assert.Contains(t, output, "https://go.dev/tour/concurrency/2")
	assert.Contains(t, output, "2 sources")
}

func TestView_AnswerCompleted_NoSources(t *testing.T) {
	view := readyView(nil)

	view.Update(messages.AnswerCompleted{Question: "q", Response: &domain.ChatResponse{
		Text:    "I could not find any relevant pages in your history.",
		Sources: []domain.ChatSource{},
	}})

	assert.Contains(t, view.View(), "No sources")
}

func TestView_AnswerCompleted_Error(t *testing.T) {
	view := readyView(nil)
	view.Update(messages.AnswerCompleted{Question: "q", Response: sampleResponse()})

	view.Update(messages.AnswerCompleted{Question: "q2", Err: domain.ErrLLMUnavailable})

	assert.ErrorIs(t, view.Err(), domain.ErrLLMUnavailable)
	assert.Nil(t, view.Response())
}

func TestView_NewQuestion(t *testing.T) {
	view := readyView(nil)
	view.SetQuestion("old")
	view.Update(messages.AnswerCompleted{Question: "old", Response: sampleResponse()})

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.False(t, view.InputFocused(), "other keys ignored while reading")

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	assert.True(t, view.InputFocused())
	assert.Equal(t, "", view.input.Value())
}

func TestView_Esc(t *testing.T) {
	view := readyView(nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_Typing(t *testing.T) {
	view := readyView(nil)

	for _, r := range "why" {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "why", view.input.Value())
}

func TestView_View(t *testing.T) {
	assert.Equal(t, "Initialising...", NewView(nil, nil, nil).View())

	output := readyView(nil).View()
	assert.Contains(t, output, "Ask")
	assert.Contains(t, output, "Answers cite the pages they came from.")
}
