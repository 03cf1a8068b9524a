package driving

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search embeds the query, over-fetches candidates, reranks them and
	// annotates each result with a snippet. A blank query returns no results.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
