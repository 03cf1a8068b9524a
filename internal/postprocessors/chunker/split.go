package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Split breaks text into sentence-aligned chunks of at most maxSize characters.
//
// Sentences are accumulated greedily. When the next sentence would push the
// running chunk past maxSize, the chunk is emitted and the next one starts
// with the last overlapWords words of it (or all of it, if it has no more
// words than that). A sentence longer than maxSize is never cut.
func Split(text string, maxSize, overlapWords int) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	current := ""

	for _, sentence := range sentences {
		if current != "" && runeLen(current)+runeLen(sentence) > maxSize {
			chunks = append(chunks, current)
			if tail := overlapTail(current, overlapWords); tail != "" {
				current = tail + " " + sentence
			} else {
				current = sentence
			}
			continue
		}
		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// splitSentences splits after '.', '!' or '?' when followed by whitespace.
// The whitespace run between sentences is dropped.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// overlapTail returns the seed for the chunk following chunk.
// Zero words means no overlap.
func overlapTail(chunk string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(chunk)
	if len(words) <= n {
		return chunk
	}
	return strings.Join(words[len(words)-n:], " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
