package driven

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// Normaliser turns raw page content into clean text.
// Each normaliser handles specific MIME types.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	// "*/*" marks a fallback.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// MIME-specific normalisers return 50-89, fallbacks 1-9.
	Priority() int

	// Normalise converts a page into a document with Content populated.
	Normalise(ctx context.Context, page *domain.Page) (*domain.Document, error)
}

// NormaliserRegistry selects the appropriate normaliser for a page.
type NormaliserRegistry interface {
	// Normalise converts a page using the best matching normaliser.
	Normalise(ctx context.Context, page *domain.Page) (*domain.Document, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
