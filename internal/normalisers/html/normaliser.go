package html

import (
	"context"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML pages.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an HTML page to a document of clean text.
func (n *Normaliser) Normalise(_ context.Context, page *domain.Page) (*domain.Document, error) {
	if page == nil {
		return nil, domain.ErrInvalidInput
	}

	raw := string(page.Content)

	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = extractTitle(raw)
	}
	if title == "" {
		title = normalisers.TitleFromURL(page.URL)
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		URL:       page.URL,
		Title:     title,
		Content:   normalisers.Clean(stripHTML(raw)),
		MIMEType:  "text/html",
		CreatedAt: time.Now().UTC(),
	}, nil
}

var (
	titleTag = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

	// Elements whose content is never page text.
	droppedElements = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?s)<!--.*?-->`),
	}

	// Block boundaries become whitespace so adjacent words do not merge.
	blockBoundary = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|td|th|blockquote|pre|table|section|article)\b[^>]*>`)
	anyTag        = regexp.MustCompile(`<[^>]+>`)
)

func extractTitle(raw string) string {
	m := titleTag.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// stripHTML removes markup and returns the readable text.
func stripHTML(raw string) string {
	for _, re := range droppedElements {
		raw = re.ReplaceAllString(raw, "")
	}
	raw = blockBoundary.ReplaceAllString(raw, "\n")
	raw = anyTag.ReplaceAllString(raw, "")
	return html.UnescapeString(raw)
}
