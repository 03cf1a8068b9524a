package driving

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// IngestService accepts visited pages from the browser extension.
type IngestService interface {
	// Ingest filters, normalises, chunks and indexes a page.
	// Confidential pages are skipped, not rejected.
	Ingest(ctx context.Context, page domain.Page) (*domain.IngestResult, error)
}
