package mcp

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	resp *domain.ChatResponse
	err  error
}

func (m *mockChatService) Ask(_ context.Context, _ string) (*domain.ChatResponse, error) {
	return m.resp, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats *domain.IndexStats
	err   error
}

func (m *mockIndexService) Open(_ context.Context) error  { return nil }
func (m *mockIndexService) Close(_ context.Context) error { return nil }
func (m *mockIndexService) Clear(_ context.Context) error { return nil }

func (m *mockIndexService) AddDocument(_ context.Context, _ *domain.Document, _ []domain.Chunk) (int, error) {
	return 0, nil
}

func (m *mockIndexService) Retrieve(_ context.Context, _ string, _ int) ([]domain.Candidate, error) {
	return nil, nil
}

func (m *mockIndexService) Stats(_ context.Context) (*domain.IndexStats, error) {
	return m.stats, m.err
}
