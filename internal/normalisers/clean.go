package normalisers

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Site chrome that leaks into extracted page text.
	boilerplate = regexp.MustCompile(`(?i)\b(menu|navigation|search|skip to content)\b`)
)

// Clean collapses whitespace and removes common navigation words.
// Words are matched whole, so "research" survives.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = boilerplate.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// TitleFromURL derives a readable title when a page has none.
func TitleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return u.Host
	}
	return u.Host + "/" + path
}
