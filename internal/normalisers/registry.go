package normalisers

import (
	"context"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// DefaultMIMEType is assumed for pages that do not declare one.
// The browser extension sends already extracted text.
const DefaultMIMEType = "text/plain"

// Registry selects the highest priority normaliser for a page's MIME type.
type Registry struct {
	mu     sync.RWMutex
	byType map[string][]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]driven.Normaliser)}
}

// Register adds a normaliser for each MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mt := range n.SupportedMIMETypes() {
		list := append(r.byType[mt], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byType[mt] = list
	}
}

// SupportedMIMETypes returns every registered MIME type, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for mt := range r.byType {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// Normalise converts page with the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, page *domain.Page) (*domain.Document, error) {
	if page == nil {
		return nil, domain.ErrInvalidInput
	}

	mt := baseMIMEType(page.MIMEType)

	r.mu.RLock()
	candidates := r.byType[mt]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s: %w", mt, domain.ErrUnsupportedType)
	}

	n := candidates[0]
	logger.Debug("normalising %s as %s (%T)", page.URL, mt, n)
	return n.Normalise(ctx, page)
}

// baseMIMEType strips parameters such as charset and lowercases the type.
func baseMIMEType(mt string) string {
	if strings.TrimSpace(mt) == "" {
		return DefaultMIMEType
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
