package driven

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// MetadataStore holds chunk records in insertion order.
// The i-th record put corresponds to slot i of the VectorIndex.
type MetadataStore interface {
	// Put appends a record. A duplicate ID returns domain.ErrAlreadyExists.
	Put(ctx context.Context, chunk domain.Chunk) error

	// GetBySlot returns the record inserted at position slot.
	// Out-of-range slots return a *domain.SlotOutOfRangeError.
	GetBySlot(ctx context.Context, slot int) (*domain.Chunk, error)

	// Get returns a record by chunk ID.
	Get(ctx context.Context, id string) (*domain.Chunk, error)

	// All returns every record in insertion order.
	All(ctx context.Context) ([]domain.Chunk, error)

	// Len returns the number of records.
	Len() int

	// Reset drops every record.
	Reset()

	// Truncate drops every record at or after slot n. n >= Len is a no-op.
	Truncate(n int)
}
