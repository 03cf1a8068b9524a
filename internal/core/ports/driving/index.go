package driving

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// IndexService owns the vector index and metadata store.
type IndexService interface {
	// Open loads persisted state. It must be called before any other operation.
	Open(ctx context.Context) error

	// Close releases the index. Further operations return domain.ErrIndexClosed.
	Close(ctx context.Context) error

	// Clear drops every chunk and vector and persists the empty state.
	Clear(ctx context.Context) error

	// AddDocument embeds and stores a document's chunks, then persists.
	// It returns the number of chunks stored.
	AddDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) (int, error)

	// Retrieve returns the k nearest candidates to the query.
	Retrieve(ctx context.Context, query string, k int) ([]domain.Candidate, error)

	// Stats summarises the index.
	Stats(ctx context.Context) (*domain.IndexStats, error)
}
