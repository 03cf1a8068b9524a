package services

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// Reranking constants.
const (
	vectorWeight  = 0.7
	lexicalWeight = 0.3

	// distanceScale controls how quickly vector score decays with distance.
	distanceScale = 5.0

	maxFrequencyBonus = 0.5
	frequencyDivisor  = 50.0

	// minTermRunes excludes stop-word-sized terms ("is", "of", "a").
	minTermRunes = 3

	overFetchFactor = 3
	maxOverFetch    = 15
)

// termTrimSet is stripped from both ends of every query term.
const termTrimSet = ",.?!:;'\"-()[]{}"

// QueryTerms lowercases the query, splits it on whitespace, strips
// surrounding punctuation and keeps distinct terms of three or more characters.
func QueryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		term := strings.Trim(f, termTrimSet)
		if utf8.RuneCountInString(term) < minTermRunes {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// VectorScore maps a squared L2 distance into (0, 1].
func VectorScore(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return math.Exp(-distance / distanceScale)
}

// LexicalScore measures term overlap between terms and text in [0, 1.5].
//
// The matched fraction of distinct terms is boosted by up to 50% for
// repeated occurrences.
func LexicalScore(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	matched, occurrences := 0, 0
	for _, term := range terms {
		if n := strings.Count(lower, term); n > 0 {
			matched++
			occurrences += n
		}
	}

	fraction := float64(matched) / float64(len(terms))
	bonus := math.Min(maxFrequencyBonus, float64(occurrences)/frequencyDivisor)
	return fraction * (1 + bonus)
}

// CombinedScore weights vector similarity and lexical overlap, capped at 1.
func CombinedScore(vector, lexical float64) float64 {
	return math.Min(1, vectorWeight*vector+lexicalWeight*lexical)
}

// OverFetch returns how many candidates to retrieve for a final topK.
func OverFetch(topK int) int {
	return min(overFetchFactor*topK, maxOverFetch)
}

// Rerank rescores candidates and returns the best topK, highest first.
// Candidates with equal scores keep their retrieval order.
func Rerank(query string, candidates []domain.Candidate, topK int) []domain.SearchResult {
	if len(candidates) == 0 || topK <= 0 {
		return []domain.SearchResult{}
	}

	terms := QueryTerms(query)
	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		vector := VectorScore(c.Distance)
		lexical := LexicalScore(terms, c.Chunk.Content)
		results[i] = domain.SearchResult{
			URL:          c.Chunk.URL,
			Title:        c.Chunk.Title,
			Content:      c.Chunk.Content,
			ChunkID:      c.Chunk.ID,
			Score:        CombinedScore(vector, lexical),
			VectorScore:  vector,
			LexicalScore: lexical,
			Distance:     c.Distance,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results
}
