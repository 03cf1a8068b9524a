package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs hybrid search: vector retrieval followed by a lexical rerank.
type SearchService struct {
	index driving.IndexService
}

// NewSearchService creates a search service over index.
func NewSearchService(index driving.IndexService) *SearchService {
	return &SearchService{index: index}
}

// Search returns up to opts.Limit results for query, best first.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	candidates, err := s.index.Retrieve(ctx, query, OverFetch(limit))
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("Vector retrieval: %d candidates", len(candidates))

	results := Rerank(query, candidates, limit)
	terms := QueryTerms(query)
	for i := range results {
		results[i].Snippet = Snippet(query, results[i].Content, DefaultSnippetLength)
		results[i].Highlights = Highlights(terms, results[i].Content)
	}

	for i, r := range results {
		logger.Debug("  %d. %.4f (vector %.4f, lexical %.4f) %s",
			i+1, r.Score, r.VectorScore, r.LexicalScore, r.ChunkID)
	}
	return results, nil
}
