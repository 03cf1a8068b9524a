package driven

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// IndexRepository persists vectors and metadata as one unit.
// A Save either fully replaces the stored snapshot or leaves the previous one intact.
type IndexRepository interface {
	// Save writes the snapshot durably.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Load returns the last saved snapshot, or domain.ErrNotFound if none exists.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Size returns the on-disk footprint in bytes.
	Size(ctx context.Context) (int64, error)

	// Close releases resources.
	Close() error
}
