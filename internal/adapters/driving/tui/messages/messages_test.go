package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

func TestSearchCompleted(t *testing.T) {
	t.Run("with results", func(t *testing.T) {
		results := []domain.SearchResult{
			{URL: "https://a.example", Title: "A", Score: 0.9},
			{URL: "https://b.example", Title: "B", Score: 0.8},
		}
		msg := SearchCompleted{Query: "go", Results: results}

		assert.Equal(t, "go", msg.Query)
		assert.Len(t, msg.Results, 2)
		assert.Equal(t, "A", msg.Results[0].Title)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := SearchCompleted{Err: domain.ErrEmbeddingUnavailable}

		assert.Nil(t, msg.Results)
		assert.ErrorIs(t, msg.Err, domain.ErrEmbeddingUnavailable)
	})
}

func TestResultOpened(t *testing.T) {
	msg := ResultOpened{Result: domain.SearchResult{ChunkID: "c1", URL: "https://a.example"}}

	assert.Equal(t, "c1", msg.Result.ChunkID)
}

func TestAnswerCompleted(t *testing.T) {
	resp := &domain.ChatResponse{
		Text:    "Answer [1]",
		Sources: []domain.ChatSource{{URL: "https://a.example"}},
	}
	msg := AnswerCompleted{Question: "what?", Response: resp}

	assert.Equal(t, "what?", msg.Question)
	assert.Equal(t, "Answer [1]", msg.Response.Text)
	assert.Len(t, msg.Response.Sources, 1)
}

func TestStatsLoaded(t *testing.T) {
	err := errors.New("closed")
	msg := StatsLoaded{Err: err}

	assert.Nil(t, msg.Stats)
	assert.Equal(t, err, msg.Err)
}

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewSearch, "search"},
		{ViewPreview, "preview"},
		{ViewAsk, "ask"},
		{ViewStats, "stats"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	seen := map[ViewType]bool{}
	for _, v := range []ViewType{ViewMenu, ViewSearch, ViewPreview, ViewAsk, ViewStats} {
		assert.False(t, seen[v], "duplicate view type %d", v)
		seen[v] = true
	}
}

func TestErrorOccurred(t *testing.T) {
	msg := ErrorOccurred{Err: domain.ErrLLMUnavailable}

	assert.ErrorIs(t, msg.Err, domain.ErrLLMUnavailable)
}
