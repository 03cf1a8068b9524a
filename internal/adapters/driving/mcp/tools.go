package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// maxSearchLimit caps the limit an assistant can ask for.
const maxSearchLimit = 50

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"what to look for in the browsing history"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a question to answer from previously visited pages"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string              `json:"answer"`
	Sources []domain.ChatSource `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the pages the user has visited, ranked by semantic and keyword relevance",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the pages the user has visited, citing sources",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	results, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{Limit: limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			URL:     results[i].URL,
			Title:   results[i].Title,
			ChunkID: results[i].ChunkID,
			Score:   results[i].Score,
			Snippet: results[i].Snippet,
		}
	}
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Chat == nil {
		return nil, AskOutput{}, errors.New("chat is not configured")
	}

	resp, err := s.ports.Chat.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := resp.Sources
	if sources == nil {
		sources = []domain.ChatSource{}
	}
	return nil, AskOutput{Answer: resp.Text, Sources: sources}, nil
}
