package domain

// DefaultSearchLimit is the number of results returned when no limit is given.
const DefaultSearchLimit = 5

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int
}

// Candidate is a chunk returned by nearest-neighbour retrieval, before reranking.
type Candidate struct {
	// Slot is the vector index position the chunk was resolved from.
	Slot int

	// Distance is the squared Euclidean distance to the query vector.
	Distance float64

	// Chunk is the metadata record stored at Slot.
	Chunk Chunk
}

// Highlight marks one occurrence of a query term, in rune offsets.
type Highlight struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Term  string `json:"term"`
}

// SearchResult represents a single reranked search hit.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
	ChunkID string `json:"chunk_id"`

	// Score is the combined relevance score in [0, 1].
	Score float64 `json:"score"`

	// VectorScore and LexicalScore are the components of Score.
	VectorScore  float64 `json:"vector_score"`
	LexicalScore float64 `json:"lexical_score"`

	// Distance is the raw vector distance.
	Distance float64 `json:"distance"`

	Highlights []Highlight `json:"highlights,omitempty"`
}

// ChatSource is a search result cited by a chat answer.
type ChatSource struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	ChunkID string `json:"chunk_id"`
	Snippet string `json:"snippet"`
}

// ChatResponse is an answer grounded in indexed history.
type ChatResponse struct {
	Text    string       `json:"text"`
	Sources []ChatSource `json:"sources"`
}
