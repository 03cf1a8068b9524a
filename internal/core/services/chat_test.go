package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

func result(id, title, content string) domain.SearchResult {
	return domain.SearchResult{URL: "https://" + id + ".com", Title: title, ChunkID: id, Content: content}
}

func TestChatService_Ask(t *testing.T) {
	search := &mockSearchService{results: []domain.SearchResult{
		result("a", "Cats", "Cats are mammals."),
		result("b", "Dogs", "Dogs are mammals too."),
	}}
	llm := &mockLLM{response: "  Both are mammals [Source 1][Source 2].  "}

	resp, err := NewChatService(search, llm, &mockPromptStore{}).Ask(context.Background(), "are cats mammals?")
	require.NoError(t, err)

	assert.Equal(t, "Both are mammals [Source 1][Source 2].", resp.Text)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, domain.ChatSource{URL: "https://a.com", Title: "Cats", ChunkID: "a", Snippet: "Cats are mammals."}, resp.Sources[0])
	assert.Equal(t, 10, search.opts.Limit)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "[Source 1] From Cats:\nCats are mammals.\n\n")
	assert.Contains(t, prompt, "[Source 2] From Dogs:\nDogs are mammals too.\n\n")
	assert.Contains(t, prompt, "QUESTION: are cats mammals?")
}

func TestChatService_NoContext(t *testing.T) {
	llm := &mockLLM{response: "unused"}
	search := &mockSearchService{results: []domain.SearchResult{result("a", "Blank", "   ")}}

	resp, err := NewChatService(search, llm, &mockPromptStore{}).Ask(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, resp.Text)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, llm.prompts)
}

func TestChatService_LimitsSourcesAndSkipsBlank(t *testing.T) {
	var results []domain.SearchResult
	for i := 0; i < 8; i++ {
		content := fmt.Sprintf("content %d", i)
		if i == 1 {
			content = ""
		}
		results = append(results, result(fmt.Sprintf("c%d", i), fmt.Sprintf("T%d", i), content))
	}
	llm := &mockLLM{response: "ok"}

	resp, err := NewChatService(&mockSearchService{results: results}, llm, &mockPromptStore{}).
		Ask(context.Background(), "q")
	require.NoError(t, err)

	require.Len(t, resp.Sources, 5)
	ids := make([]string, len(resp.Sources))
	for i, s := range resp.Sources {
		ids[i] = s.ChunkID
	}
	assert.Equal(t, []string{"c0", "c2", "c3", "c4", "c5"}, ids)
	assert.Contains(t, llm.prompts[0], "[Source 2] From T2:")
	assert.NotContains(t, llm.prompts[0], "[Source 6]")
}

func TestChatService_SourceSnippetTruncated(t *testing.T) {
	long := strings.Repeat("é", 250)
	resp, err := NewChatService(
		&mockSearchService{results: []domain.SearchResult{result("a", "T", long)}},
		&mockLLM{response: "ok"},
		&mockPromptStore{},
	).Ask(context.Background(), "q")
	require.NoError(t, err)

	require.Len(t, resp.Sources, 1)
	assert.Equal(t, strings.Repeat("é", 200)+"...", resp.Sources[0].Snippet)
}

func TestChatService_NilLLM(t *testing.T) {
	search := &mockSearchService{results: []domain.SearchResult{result("a", "T", "text")}}

	_, err := NewChatService(search, nil, &mockPromptStore{}).Ask(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChatService_Errors(t *testing.T) {
	ctx := context.Background()
	withContext := &mockSearchService{results: []domain.SearchResult{result("a", "T", "text")}}

	_, err := NewChatService(withContext, &mockLLM{}, &mockPromptStore{}).Ask(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	searchErr := &mockSearchService{err: domain.ErrEmbeddingUnavailable}
	_, err = NewChatService(searchErr, &mockLLM{}, &mockPromptStore{}).Ask(ctx, "q")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	llmErr := errors.New("quota exceeded")
	_, err = NewChatService(withContext, &mockLLM{err: llmErr}, &mockPromptStore{}).Ask(ctx, "q")
	assert.ErrorIs(t, err, llmErr)

	promptErr := errors.New("bad template dir")
	_, err = NewChatService(withContext, &mockLLM{}, &mockPromptStore{err: promptErr}).Ask(ctx, "q")
	assert.ErrorIs(t, err, promptErr)
}
