package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore keeps chunk records in insertion order.
// ids[slot] is the chunk ID at that slot; records maps IDs to chunks.
// Slot lookups index ids directly and never depend on map iteration.
type MetadataStore struct {
	mu      sync.RWMutex
	ids     []string
	records map[string]domain.Chunk
}

// NewMetadataStore creates an empty metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		records: make(map[string]domain.Chunk),
	}
}

// Put appends a chunk record.
func (s *MetadataStore) Put(_ context.Context, chunk domain.Chunk) error {
	if chunk.ID == "" {
		return fmt.Errorf("chunk id is empty: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[chunk.ID]; ok {
		return fmt.Errorf("chunk %s: %w", chunk.ID, domain.ErrAlreadyExists)
	}
	s.ids = append(s.ids, chunk.ID)
	s.records[chunk.ID] = chunk
	return nil
}

// GetBySlot returns the record inserted at position slot.
func (s *MetadataStore) GetBySlot(_ context.Context, slot int) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if slot < 0 || slot >= len(s.ids) {
		return nil, &domain.SlotOutOfRangeError{Slot: slot, Len: len(s.ids)}
	}
	chunk := s.records[s.ids[slot]]
	return &chunk, nil
}

// Get returns a record by chunk ID.
func (s *MetadataStore) Get(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunk, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// All returns every record in insertion order.
func (s *MetadataStore) All(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Chunk, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.records[id]
	}
	return out, nil
}

// Len returns the number of records.
func (s *MetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Reset drops every record.
func (s *MetadataStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	s.records = make(map[string]domain.Chunk)
}

// Truncate drops the records at slot n and later.
func (s *MetadataStore) Truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n >= len(s.ids) {
		return
	}
	for _, id := range s.ids[n:] {
		delete(s.records, id)
	}
	s.ids = s.ids[:n]
}
