// Package chunker provides a sentence-aligned text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlapWords is the default number of words carried into the next chunk.
const DefaultOverlapWords = 40

// Processor splits document content into sentence-aligned chunks.
type Processor struct {
	chunkSize    int
	overlapWords int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlapWords sets how many trailing words seed the next chunk.
func WithOverlapWords(words int) Option {
	return func(p *Processor) {
		if words >= 0 {
			p.overlapWords = words
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:    DefaultChunkSize,
		overlapWords: DefaultOverlapWords,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored. Positions follow the split order, so a blank
// piece leaves a gap rather than renumbering its successors.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	pieces := Split(doc.Content, p.chunkSize, p.overlapWords)
	if len(pieces) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, text := range pieces {
		if strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			URL:        doc.URL,
			Title:      doc.Title,
			Content:    text,
			Position:   i,
			Timestamp:  doc.CreatedAt,
		})
	}

	return chunks, nil
}
