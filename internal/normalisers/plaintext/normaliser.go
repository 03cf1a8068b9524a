// Package plaintext normalises pages whose content is already text, which is
// what the browser extension sends after extracting a page's visible text.
package plaintext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text pages.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
		"application/json",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise converts a text page into a document.
func (n *Normaliser) Normalise(_ context.Context, page *domain.Page) (*domain.Document, error) {
	if page == nil {
		return nil, domain.ErrInvalidInput
	}

	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = normalisers.TitleFromURL(page.URL)
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		URL:       page.URL,
		Title:     title,
		Content:   normalisers.Clean(string(page.Content)),
		MIMEType:  "text/plain",
		CreatedAt: time.Now().UTC(),
	}, nil
}
