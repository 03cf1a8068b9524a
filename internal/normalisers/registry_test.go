package normalisers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/normalisers"
	"github.com/custodia-labs/webrecall/internal/normalisers/html"
	"github.com/custodia-labs/webrecall/internal/normalisers/plaintext"
)

type fakeNormaliser struct {
	types    []string
	priority int
	title    string
}

func (f *fakeNormaliser) SupportedMIMETypes() []string { return f.types }
func (f *fakeNormaliser) Priority() int                { return f.priority }
func (f *fakeNormaliser) Normalise(_ context.Context, page *domain.Page) (*domain.Document, error) {
	return &domain.Document{URL: page.URL, Title: f.title, Content: string(page.Content)}, nil
}

func newRegistry() *normalisers.Registry {
	r := normalisers.NewRegistry()
	r.Register(plaintext.New())
	r.Register(html.New())
	return r
}

func TestRegistry_DefaultsToPlainText(t *testing.T) {
	doc, err := newRegistry().Normalise(context.Background(), &domain.Page{
		URL:     "https://example.com",
		Content: []byte("<b>kept</b> as text"),
	})
	require.NoError(t, err)
	assert.Equal(t, "<b>kept</b> as text", doc.Content)
}

func TestRegistry_StripsMIMEParameters(t *testing.T) {
	doc, err := newRegistry().Normalise(context.Background(), &domain.Page{
		URL:      "https://example.com",
		MIMEType: "Text/HTML; charset=utf-8",
		Content:  []byte("<p>bold</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "bold", doc.Content)
}

func TestRegistry_UnsupportedType(t *testing.T) {
	_, err := newRegistry().Normalise(context.Background(), &domain.Page{
		URL:      "https://example.com",
		MIMEType: "image/png",
		Content:  []byte{0x89},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilPage(t *testing.T) {
	_, err := newRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_HighestPriorityWins(t *testing.T) {
	r := normalisers.NewRegistry()
	r.Register(&fakeNormaliser{types: []string{"text/plain"}, priority: 1, title: "low"})
	r.Register(&fakeNormaliser{types: []string{"text/plain"}, priority: 9, title: "high"})
	r.Register(&fakeNormaliser{types: []string{"text/plain"}, priority: 5, title: "mid"})

	doc, err := r.Normalise(context.Background(), &domain.Page{URL: "u", Content: []byte("c")})
	require.NoError(t, err)
	assert.Equal(t, "high", doc.Title)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	types := newRegistry().SupportedMIMETypes()
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/html")
	assert.IsIncreasing(t, types)
}
