package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

type indexState int

const (
	stateNew indexState = iota
	stateOpen
	stateClosed
)

// IndexService owns the vector index and the metadata store and keeps them
// aligned: slot i of the vector index always describes the i-th chunk put
// into the metadata store.
type IndexService struct {
	mu    sync.Mutex
	state indexState

	vectors  driven.VectorIndex
	metadata driven.MetadataStore
	repo     driven.IndexRepository
	embedder driven.EmbeddingService
}

// NewIndexService creates an index handle. Call Open before use.
// The repository is optional; without one the index lives in memory only.
func NewIndexService(
	vectors driven.VectorIndex,
	metadata driven.MetadataStore,
	repo driven.IndexRepository,
	embedder driven.EmbeddingService,
) *IndexService {
	return &IndexService{
		vectors:  vectors,
		metadata: metadata,
		repo:     repo,
		embedder: embedder,
	}
}

// Open loads the persisted snapshot, if any, into memory.
func (s *IndexService) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateOpen:
		return nil
	case stateClosed:
		return domain.ErrIndexClosed
	}

	logger.Section("Open Index")

	if s.repo != nil {
		snapshot, err := s.repo.Load(ctx)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("no stored index, starting empty")
		case err != nil:
			return fmt.Errorf("load index: %w", err)
		default:
			if err := s.restore(ctx, snapshot); err != nil {
				return err
			}
		}
	}

	s.state = stateOpen
	logger.Debug("index open with %d chunks", s.metadata.Len())
	return nil
}

// restore rebuilds both stores from snapshot in slot order.
func (s *IndexService) restore(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	if snapshot.Len() == 0 {
		return nil
	}
	if snapshot.Dimension != s.vectors.Dimension() {
		return fmt.Errorf("stored index does not match the embedding model, clear it to re-index: %w",
			&domain.ShapeMismatchError{Expected: s.vectors.Dimension(), Got: snapshot.Dimension})
	}

	s.vectors.Reset()
	s.metadata.Reset()

	if err := s.vectors.Add(ctx, snapshot.Vectors); err != nil {
		return fmt.Errorf("restore vectors: %w", err)
	}
	for _, c := range snapshot.Chunks {
		if err := s.metadata.Put(ctx, c); err != nil {
			s.vectors.Reset()
			s.metadata.Reset()
			return fmt.Errorf("restore chunk %s: %w", c.ID, err)
		}
	}
	return s.checkAligned()
}

// Close releases the index. The handle cannot be reopened.
func (s *IndexService) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return nil
	}
	s.state = stateClosed

	var errs []error
	if err := s.vectors.Close(); err != nil {
		errs = append(errs, err)
	}
	s.metadata.Reset()
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear drops every chunk and persists the empty index.
func (s *IndexService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return domain.ErrIndexClosed
	}

	logger.Section("Clear Index")
	s.vectors.Reset()
	s.metadata.Reset()
	return s.persist(ctx, "clear")
}

// AddDocument embeds and stores the chunks of doc and returns how many were stored.
// Every chunk is embedded before any state changes, so a failed embedding
// leaves the index as it was.
func (s *IndexService) AddDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) (int, error) {
	if doc == nil || strings.TrimSpace(doc.URL) == "" {
		return 0, fmt.Errorf("document url is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return 0, fmt.Errorf("document content is required: %w", domain.ErrInvalidInput)
	}

	kept := make([]domain.Chunk, 0, len(chunks))
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		kept = append(kept, c)
		texts = append(texts, c.Content)
	}
	if len(kept) == 0 {
		return 0, domain.ErrNoContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return 0, domain.ErrIndexClosed
	}

	logger.Section("Index Document")
	logger.Debug("URL: %s, chunks: %d", doc.URL, len(kept))

	if err := s.checkAligned(); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(kept))
	for _, c := range kept {
		if c.ID == "" {
			return 0, fmt.Errorf("chunk at position %d has no id: %w", c.Position, domain.ErrInvalidInput)
		}
		if _, dup := seen[c.ID]; dup {
			return 0, fmt.Errorf("chunk %s: %w", c.ID, domain.ErrAlreadyExists)
		}
		seen[c.ID] = struct{}{}
		if _, err := s.metadata.Get(ctx, c.ID); err == nil {
			return 0, fmt.Errorf("chunk %s: %w", c.ID, domain.ErrAlreadyExists)
		}
	}

	vectors, err := s.embed(ctx, texts)
	if err != nil {
		return 0, err
	}

	base := s.metadata.Len()
	if err := s.vectors.Add(ctx, vectors); err != nil {
		s.rollback(base)
		return 0, fmt.Errorf("add vectors: %w", err)
	}
	for _, c := range kept {
		if err := s.metadata.Put(ctx, c); err != nil {
			s.rollback(base)
			return 0, fmt.Errorf("put chunk %s: %w", c.ID, err)
		}
	}
	if err := s.checkAligned(); err != nil {
		s.rollback(base)
		return 0, err
	}

	// The chunks stay searchable when saving fails, so the count is returned
	// alongside the error.
	if err := s.persist(ctx, "add document"); err != nil {
		return len(kept), err
	}
	logger.Debug("indexed %d chunks, index now holds %d", len(kept), s.metadata.Len())
	return len(kept), nil
}

func (s *IndexService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}
	for _, v := range vectors {
		if len(v) != s.vectors.Dimension() {
			return nil, &domain.ShapeMismatchError{Expected: s.vectors.Dimension(), Got: len(v)}
		}
	}
	return vectors, nil
}

// rollback returns both stores to n slots after a failed add.
func (s *IndexService) rollback(n int) {
	s.vectors.Truncate(n)
	s.metadata.Truncate(n)
	logger.Warn("add rolled back to %d slots", n)
}

// checkAligned verifies that every vector slot has a metadata record.
func (s *IndexService) checkAligned() error {
	if v, m := s.vectors.Len(), s.metadata.Len(); v != m {
		return &domain.IndexCorruptionError{Vectors: v, Records: m}
	}
	return nil
}

// persist saves the full index. The in-memory state is kept on failure.
func (s *IndexService) persist(ctx context.Context, op string) error {
	if s.repo == nil {
		return nil
	}

	chunks, err := s.metadata.All(ctx)
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	snapshot := &domain.Snapshot{
		Dimension: s.vectors.Dimension(),
		Vectors:   s.vectors.Vectors(),
		Chunks:    chunks,
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		logger.Warn("persist after %s failed: %v", op, err)
		return &domain.StorageError{Op: op, Err: err}
	}
	return nil
}

// Retrieve returns the k nearest chunks to query in ascending distance.
// An empty index returns no candidates without calling the embedder.
func (s *IndexService) Retrieve(ctx context.Context, query string, k int) ([]domain.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return nil, domain.ErrIndexClosed
	}
	if k <= 0 || s.vectors.Len() == 0 {
		return []domain.Candidate{}, nil
	}

	vectors, err := s.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	hits, err := s.vectors.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(hits))
	for _, h := range hits {
		chunk, err := s.metadata.GetBySlot(ctx, h.Slot)
		if err != nil {
			return nil, fmt.Errorf("resolve slot: %w", err)
		}
		candidates = append(candidates, domain.Candidate{Slot: h.Slot, Distance: h.Distance, Chunk: *chunk})
	}
	logger.Debug("retrieved %d candidates for k=%d", len(candidates), k)
	return candidates, nil
}

// Stats describes the current index.
func (s *IndexService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateOpen {
		return nil, domain.ErrIndexClosed
	}

	chunks, err := s.metadata.All(ctx)
	if err != nil {
		return nil, err
	}
	urls := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		urls[c.URL] = struct{}{}
	}

	stats := &domain.IndexStats{
		TotalChunks:    len(chunks),
		TotalDocuments: len(urls),
		Dimension:      s.vectors.Dimension(),
	}
	if s.embedder != nil {
		stats.Model = s.embedder.ModelName()
	}
	if s.repo != nil {
		size, err := s.repo.Size(ctx)
		if err != nil {
			return nil, &domain.StorageError{Op: "size", Err: err}
		}
		stats.IndexSizeBytes = size
	}
	return stats, nil
}
