package domain

// Snapshot is the persisted state of an index.
// Vectors[i] belongs to Chunks[i]; the two are always saved together.
type Snapshot struct {
	Dimension int
	Vectors   [][]float32
	Chunks    []Chunk
}

// Len returns the number of slots in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Chunks)
}

// Validate checks positional correspondence and vector shape.
func (s *Snapshot) Validate() error {
	if len(s.Vectors) != len(s.Chunks) {
		return &IndexCorruptionError{Vectors: len(s.Vectors), Records: len(s.Chunks)}
	}
	for _, v := range s.Vectors {
		if len(v) != s.Dimension {
			return &ShapeMismatchError{Expected: s.Dimension, Got: len(v)}
		}
	}
	return nil
}

// IndexStats summarises the contents of an index.
type IndexStats struct {
	TotalChunks    int    `json:"total_chunks"`
	TotalDocuments int    `json:"total_documents"`
	IndexSizeBytes int64  `json:"index_size_bytes"`
	Dimension      int    `json:"dimension"`
	Model          string `json:"model"`
}

// IngestStatus is the outcome of ingesting a page.
type IngestStatus string

// Ingest outcomes.
const (
	IngestIndexed IngestStatus = "indexed"
	IngestSkipped IngestStatus = "skipped"
)

// IngestResult reports what happened to an ingested page.
type IngestResult struct {
	Status     IngestStatus `json:"status"`
	Message    string       `json:"message"`
	DocumentID string       `json:"doc_id,omitempty"`
	Chunks     int          `json:"chunks"`

	// Warning is set when the page is searchable but could not be saved to disk.
	Warning string `json:"warning,omitempty"`
}
