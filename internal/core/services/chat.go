package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

const (
	chatSearchLimit   = 10
	chatMaxSources    = 5
	sourceSnippetRune = 200
)

// NoContextAnswer is returned when nothing in the index relates to the question.
const NoContextAnswer = "I don't have enough information in my index to answer your question. " +
	"Try browsing more pages related to your query or try a different question."

// ChatService answers questions from indexed content using an LLM.
type ChatService struct {
	search  driving.SearchService
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewChatService creates a chat service. The llm may be nil, in which case
// Ask fails with domain.ErrLLMUnavailable once there is context to answer from.
func NewChatService(search driving.SearchService, llm driven.LLMService, prompts driven.PromptStore) *ChatService {
	return &ChatService{search: search, llm: llm, prompts: prompts}
}

// Ask answers query using the most relevant indexed chunks as sources.
func (s *ChatService) Ask(ctx context.Context, query string) (*domain.ChatResponse, error) {
	logger.Section("Chat")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}

	results, err := s.search.Search(ctx, query, domain.SearchOptions{Limit: chatSearchLimit})
	if err != nil {
		return nil, err
	}

	var contextText strings.Builder
	sources := make([]domain.ChatSource, 0, chatMaxSources)
	for _, r := range results {
		if len(sources) == chatMaxSources {
			break
		}
		text := strings.TrimSpace(r.Content)
		if text == "" {
			continue
		}
		sources = append(sources, domain.ChatSource{
			URL:     r.URL,
			Title:   r.Title,
			ChunkID: r.ChunkID,
			Snippet: truncateRunes(text, sourceSnippetRune),
		})
		fmt.Fprintf(&contextText, "[Source %d] From %s:\n%s\n\n", len(sources), r.Title, text)
	}

	if len(sources) == 0 {
		logger.Debug("No context available for query")
		return &domain.ChatResponse{Text: NoContextAnswer, Sources: []domain.ChatSource{}}, nil
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	template, err := s.prompts.Load(driven.PromptChatAnswer)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, contextText.String(), query)

	logger.Debug("Generating answer with %s from %d sources", s.llm.ModelName(), len(sources))
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.ChatResponse{Text: strings.TrimSpace(text), Sources: sources}, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ellipsis
}
