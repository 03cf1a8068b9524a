package services

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "empty", query: "", expected: []string{}},
		{name: "lowercases and drops short words", query: "What is the Cat", expected: []string{"what", "the", "cat"}},
		{name: "strips surrounding punctuation", query: `"(best)" cat? [dog]`, expected: []string{"best", "cat", "dog"}},
		{name: "keeps inner punctuation", query: "cat's e-mail", expected: []string{"cat's", "e-mail"}},
		{name: "dedupes in first-seen order", query: "cat dog CAT cat. dog", expected: []string{"cat", "dog"}},
		{name: "only stop-word-sized terms", query: "a an of", expected: []string{}},
		{name: "counts runes not bytes", query: "日本 日本語", expected: []string{"日本語"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueryTerms(tt.query))
		})
	}
}

func TestVectorScore(t *testing.T) {
	assert.InDelta(t, 1.0, VectorScore(0), 1e-12)
	assert.InDelta(t, math.Exp(-1), VectorScore(5), 1e-12)
	assert.InDelta(t, 1.0, VectorScore(-0.1), 1e-12)
	assert.Greater(t, VectorScore(1), VectorScore(2))
	assert.Greater(t, VectorScore(1e6), -1e-12)
}

func TestLexicalScore(t *testing.T) {
	tests := []struct {
		name     string
		terms    []string
		text     string
		expected float64
	}{
		{name: "no terms", terms: nil, text: "anything", expected: 0},
		{name: "no match", terms: []string{"cat"}, text: "dogs only", expected: 0},
		// fraction 1/2, two occurrences: 0.5 * 1.04
		{name: "partial match", terms: []string{"cats", "dogs"}, text: "Cats and CATS", expected: 0.5 * 1.04},
		// fraction 1, three occurrences: 1.06
		{name: "full match", terms: []string{"cats", "mammals"}, text: "Cats are mammals. Dogs are mammals too.", expected: 1.06},
		{name: "bonus is capped", terms: []string{"cat"}, text: strings.Repeat("cat ", 200), expected: 1.5},
		{name: "substring match", terms: []string{"cat"}, text: "concatenate", expected: 1.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LexicalScore(tt.terms, tt.text), 1e-9)
		})
	}
}

func TestCombinedScore_Bounds(t *testing.T) {
	for _, d := range []float64{0, 0.01, 0.5, 2, 10, 1000} {
		for _, text := range []string{"", "cat", strings.Repeat("cat dog ", 100)} {
			score := CombinedScore(VectorScore(d), LexicalScore([]string{"cat", "dog"}, text))
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
	assert.InDelta(t, 1.0, CombinedScore(1, 1), 1e-12)
	assert.InDelta(t, 1.0, CombinedScore(1, 1.5), 1e-12, "capped at 1")
	assert.InDelta(t, 0.7*0.5+0.3*1.5, CombinedScore(0.5, 1.5), 1e-12)
}

func TestOverFetch(t *testing.T) {
	assert.Equal(t, 3, OverFetch(1))
	assert.Equal(t, 15, OverFetch(5))
	assert.Equal(t, 15, OverFetch(10))
	assert.Equal(t, 0, OverFetch(0))
}

func candidate(slot int, distance float64, id, content string) domain.Candidate {
	return domain.Candidate{
		Slot:     slot,
		Distance: distance,
		Chunk:    domain.Chunk{ID: id, URL: "https://example.com/" + id, Title: id, Content: content},
	}
}

func TestRerank_Empty(t *testing.T) {
	results := Rerank("cats", nil, 5)
	require.NotNil(t, results)
	assert.Empty(t, results)

	results = Rerank("cats", []domain.Candidate{candidate(0, 0, "a", "cats")}, 0)
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRerank_LexicalOverlapBreaksDistanceTies(t *testing.T) {
	candidates := []domain.Candidate{
		candidate(0, 1.0, "none", "nothing relevant here"),
		candidate(1, 1.0, "one", "a page about cats"),
		candidate(2, 1.0, "both", "cats are mammals"),
	}

	results := Rerank("cats mammals", candidates, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "both", results[0].ChunkID)
	assert.Equal(t, "one", results[1].ChunkID)
	assert.Equal(t, "none", results[2].ChunkID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func TestRerank_LexicalCanOvertakeCloserVector(t *testing.T) {
	candidates := []domain.Candidate{
		candidate(0, 0.10, "close", "unrelated words"),
		candidate(1, 0.15, "match", "cats cats mammals"),
	}

	results := Rerank("cats mammals", candidates, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "match", results[0].ChunkID)
}

func TestRerank_StableOnEqualScores(t *testing.T) {
	candidates := []domain.Candidate{
		candidate(4, 0.5, "first", "same"),
		candidate(2, 0.5, "second", "same"),
		candidate(9, 0.5, "third", "same"),
	}

	results := Rerank("zzz", candidates, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].ChunkID)
	assert.Equal(t, "second", results[1].ChunkID)
	assert.Equal(t, "third", results[2].ChunkID)
}

func TestRerank_TruncatesAndFillsFields(t *testing.T) {
	var candidates []domain.Candidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(i, float64(i), string(rune('a'+i)), "cats"))
	}

	results := Rerank("cats", candidates, 4)
	require.Len(t, results, 4)

	top := results[0]
	assert.Equal(t, "a", top.ChunkID)
	assert.Equal(t, "https://example.com/a", top.URL)
	assert.Equal(t, "a", top.Title)
	assert.Equal(t, "cats", top.Content)
	assert.InDelta(t, 0.0, top.Distance, 1e-12)
	assert.InDelta(t, 1.0, top.VectorScore, 1e-12)
	assert.InDelta(t, 1.02, top.LexicalScore, 1e-9)
	assert.InDelta(t, 1.0, top.Score, 1e-9)
}
