// Package pdf extracts the text layer of PDF documents saved from the browser.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the only type this normaliser accepts.
const MIMEType = "application/pdf"

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts plain text from a PDF page.
func (n *Normaliser) Normalise(ctx context.Context, page *domain.Page) (*domain.Document, error) {
	if page == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := extractText(page.Content)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w: %w", domain.ErrInvalidInput, err)
	}

	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = normalisers.TitleFromURL(page.URL)
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		URL:       page.URL,
		Title:     title,
		Content:   normalisers.Clean(text),
		MIMEType:  MIMEType,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func extractText(data []byte) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
