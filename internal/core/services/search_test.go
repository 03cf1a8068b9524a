package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

func TestSearchService_CatsAndMammals(t *testing.T) {
	ctx := context.Background()
	f := newIndexFixture(t, &mockRepository{})
	search := NewSearchService(f.svc)

	doc, chunks := testDocument("d1", "a.com", "Cats are mammals. Dogs are mammals too.")
	doc.Title = "T"
	_, err := f.svc.AddDocument(ctx, doc, chunks)
	require.NoError(t, err)

	results, err := search.Search(ctx, "cats mammals", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "a.com", r.URL)
	assert.Equal(t, "d1_0", r.ChunkID)
	assert.Greater(t, r.LexicalScore, 0.0)
	assert.Contains(t, r.Snippet, "Cats are mammals")
	assert.GreaterOrEqual(t, r.Score, 0.0)
	assert.LessOrEqual(t, r.Score, 1.0)
	require.NotEmpty(t, r.Highlights)
	assert.Equal(t, domain.Highlight{Start: 0, End: 4, Term: "cats"}, r.Highlights[0])
}

func TestSearchService_EmptyAfterClear(t *testing.T) {
	ctx := context.Background()
	f := newIndexFixture(t, &mockRepository{})
	search := NewSearchService(f.svc)

	doc, chunks := testDocument("d1", "a.com", "Cats are mammals.")
	_, err := f.svc.AddDocument(ctx, doc, chunks)
	require.NoError(t, err)
	require.NoError(t, f.svc.Clear(ctx))

	results, err := search.Search(ctx, "cats", domain.SearchOptions{Limit: 5})
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchService_BlankQuery(t *testing.T) {
	f := newIndexFixture(t, nil)

	results, err := NewSearchService(f.svc).Search(context.Background(), "   ", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, f.embedder.callCount())
}

func TestSearchService_LimitAndOrdering(t *testing.T) {
	ctx := context.Background()
	f := newIndexFixture(t, nil)

	for i := 0; i < 20; i++ {
		text := fmt.Sprintf("filler page number %d about nothing", i)
		if i%4 == 0 {
			text = fmt.Sprintf("gardening tips for tomatoes page %d", i)
		}
		doc, chunks := testDocument(fmt.Sprintf("d%d", i), fmt.Sprintf("https://s%d.com", i), text)
		_, err := f.svc.AddDocument(ctx, doc, chunks)
		require.NoError(t, err)
	}

	results, err := NewSearchService(f.svc).Search(ctx, "gardening tomatoes", domain.SearchOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Contains(t, results[0].Content, "gardening")

	defaults, err := NewSearchService(f.svc).Search(ctx, "gardening", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, defaults, domain.DefaultSearchLimit)
}

func TestSearchService_PropagatesEmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	f := newIndexFixture(t, nil)
	doc, chunks := testDocument("d1", "a.com", "text")
	_, err := f.svc.AddDocument(ctx, doc, chunks)
	require.NoError(t, err)

	f.embedder.setErr(errors.New("ollama down"))
	_, err = NewSearchService(f.svc).Search(ctx, "text", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
