package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService takes a captured page through filtering, normalisation,
// chunking and indexing.
type IngestService struct {
	filter      *ConfidentialityFilter
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	index       driving.IndexService
}

// NewIngestService creates an ingest service. A nil filter uses the built-in list.
func NewIngestService(
	filter *ConfidentialityFilter,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	index driving.IndexService,
) *IngestService {
	if filter == nil {
		filter = NewConfidentialityFilter()
	}
	return &IngestService{
		filter:      filter,
		normalisers: normalisers,
		pipeline:    pipeline,
		index:       index,
	}
}

// Ingest indexes page unless it is confidential.
func (s *IngestService) Ingest(ctx context.Context, page domain.Page) (*domain.IngestResult, error) {
	logger.Section("Ingest Page")
	logger.Debug("URL: %s", page.URL)

	if strings.TrimSpace(page.URL) == "" {
		return nil, fmt.Errorf("url is required: %w", domain.ErrInvalidInput)
	}
	if len(page.Content) == 0 {
		return nil, fmt.Errorf("content is required: %w", domain.ErrInvalidInput)
	}

	if s.filter.IsConfidential(page.URL) {
		logger.Debug("Skipping confidential page")
		return &domain.IngestResult{Status: domain.IngestSkipped, Message: "Skipped confidential page"}, nil
	}

	doc, err := s.normalisers.Normalise(ctx, &page)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}
	if strings.TrimSpace(doc.Content) == "" {
		logger.Debug("No text left after cleaning")
		return &domain.IngestResult{Status: domain.IngestSkipped, Message: "No indexable content"}, nil
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}

	n, err := s.index.AddDocument(ctx, doc, chunks)
	var warning string
	switch {
	case errors.Is(err, domain.ErrNoContent):
		return &domain.IngestResult{Status: domain.IngestSkipped, Message: "No indexable content"}, nil
	case errors.Is(err, domain.ErrStorage) && n > 0:
		warning = err.Error()
		logger.Warn("Indexed %s in memory only: %v", doc.URL, err)
	case err != nil:
		return nil, err
	}

	logger.Debug("Indexed %d chunks as %s", n, doc.ID)
	return &domain.IngestResult{
		Status:     domain.IngestIndexed,
		Message:    fmt.Sprintf("Indexed %d chunks", n),
		DocumentID: doc.ID,
		Chunks:     n,
		Warning:    warning,
	}, nil
}
