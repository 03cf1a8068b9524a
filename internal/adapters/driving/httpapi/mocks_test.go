package httpapi

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

type mockIndex struct {
	stats    *domain.IndexStats
	err      error
	clearErr error
	cleared  int
}

func (m *mockIndex) Open(_ context.Context) error  { return nil }
func (m *mockIndex) Close(_ context.Context) error { return nil }

func (m *mockIndex) Clear(_ context.Context) error {
	m.cleared++
	return m.clearErr
}

func (m *mockIndex) AddDocument(_ context.Context, _ *domain.Document, chunks []domain.Chunk) (int, error) {
	return len(chunks), nil
}

func (m *mockIndex) Retrieve(_ context.Context, _ string, _ int) ([]domain.Candidate, error) {
	return []domain.Candidate{}, nil
}

func (m *mockIndex) Stats(_ context.Context) (*domain.IndexStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

type mockSearch struct {
	results []domain.SearchResult
	err     error
	query   string
	opts    domain.SearchOptions
}

func (m *mockSearch) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.query = query
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type mockChat struct {
	resp  *domain.ChatResponse
	err   error
	query string
}

func (m *mockChat) Ask(_ context.Context, query string) (*domain.ChatResponse, error) {
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockIngest struct {
	result *domain.IngestResult
	err    error
	pages  []domain.Page
}

func (m *mockIngest) Ingest(_ context.Context, page domain.Page) (*domain.IngestResult, error) {
	m.pages = append(m.pages, page)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
