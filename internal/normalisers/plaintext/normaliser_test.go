package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.Contains(t, mimeTypes, "text/plain")
	assert.NotContains(t, mimeTypes, "text/html")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	page := &domain.Page{
		URL:     "https://example.com/cats",
		Title:   "  All about cats ",
		Content: []byte("Cats are mammals.\n\n  Dogs are mammals too."),
	}

	doc, err := New().Normalise(context.Background(), page)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "https://example.com/cats", doc.URL)
	assert.Equal(t, "All about cats", doc.Title)
	assert.Equal(t, "Cats are mammals. Dogs are mammals too.", doc.Content)
}

func TestNormalise_UniqueIDs(t *testing.T) {
	page := &domain.Page{URL: "https://example.com", Content: []byte("text")}

	a, err := New().Normalise(context.Background(), page)
	require.NoError(t, err)
	b, err := New().Normalise(context.Background(), page)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestNormalise_NilPage(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_TitleFromURL(t *testing.T) {
	page := &domain.Page{URL: "https://go.dev/doc/effective_go", Content: []byte("x")}

	doc, err := New().Normalise(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "go.dev/doc/effective_go", doc.Title)
}

func TestNormalise_UnicodeContent(t *testing.T) {
	page := &domain.Page{URL: "https://example.jp", Content: []byte("日本語の   テキスト")}

	doc, err := New().Normalise(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "日本語の テキスト", doc.Content)
}

func TestNormalise_LargeContent(t *testing.T) {
	content := strings.Repeat("word ", 100000)
	page := &domain.Page{URL: "https://example.com", Content: []byte(content)}

	doc, err := New().Normalise(context.Background(), page)
	require.NoError(t, err)
	assert.Len(t, doc.Content, len(content)-1)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
