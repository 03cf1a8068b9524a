package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is the only network dependency on the indexing and search paths;
// failures surface as domain.ErrEmbeddingUnavailable and are never
// replaced by placeholder vectors.
//
// Implementations:
//   - Ollama (nomic-embed-text)
//   - OpenAI (text-embedding-3-small)
//   - Gemini (text-embedding-004)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The result is index-aligned with texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// It must match the VectorIndex dimension.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
