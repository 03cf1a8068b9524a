package services

import (
	"sort"
	"unicode"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// DefaultSnippetLength is the snippet window in characters.
const DefaultSnippetLength = 200

const ellipsis = "..."

// Snippet extracts a window of content centred on the query terms it contains.
// Content that fits in maxLength is returned verbatim. Offsets are counted in runes. The window is widened to whitespace boundaries
// so words are not cut, and "..." marks each truncated side.
func Snippet(query, content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSnippetLength
	}

	text := []rune(content)
	if len(text) <= maxLength {
		return content
	}
	lower := lowerRunes(text)

	sum, found := 0, 0
	for _, term := range QueryTerms(query) {
		if pos := indexRunes(lower, []rune(term), 0); pos >= 0 {
			sum += pos
			found++
		}
	}

	if found == 0 {
		return string(text[:maxLength]) + ellipsis
	}

	// The window stays maxLength wide when clipped at either edge.
	center := sum / found
	start := max(0, min(center-maxLength/2, len(text)-maxLength))
	end := min(len(text), start+maxLength)

	if start > 0 {
		i := start - 1
		for i >= 0 && !unicode.IsSpace(text[i]) {
			i--
		}
		start = i + 1
	}
	if end < len(text) {
		for end < len(text) && !unicode.IsSpace(text[end]) {
			end++
		}
	}

	snippet := string(text[start:end])
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(text) {
		snippet += ellipsis
	}
	return snippet
}

// Highlights returns every non-overlapping occurrence of each term in
// content, matched case-insensitively and sorted by start offset.
func Highlights(terms []string, content string) []domain.Highlight {
	lower := lowerRunes([]rune(content))

	var out []domain.Highlight
	for _, term := range terms {
		needle := lowerRunes([]rune(term))
		if len(needle) == 0 {
			continue
		}
		for from := 0; ; {
			pos := indexRunes(lower, needle, from)
			if pos < 0 {
				break
			}
			out = append(out, domain.Highlight{Start: pos, End: pos + len(needle), Term: term})
			from = pos + len(needle)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// lowerRunes lowercases rune by rune so offsets stay aligned with the input.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// indexRunes returns the first index of needle in hay at or after from, or -1.
func indexRunes(hay, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		match := true
		for j, r := range needle {
			if hay[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
