package services

import (
	"net/url"
	"strings"
)

// confidentialPatterns are URL fragments of sites that hold private data.
var confidentialPatterns = []string{
	"mail.google.com",
	"web.whatsapp.com",
	"drive.google.com",
	"docs.google.com",
	"sheets.google.com",
	"calendar.google.com",
	"meet.google.com",
	"outlook.live.com",
	"outlook.office.com",
	"web.telegram.org",
	"app.slack.com",
	"discord.com",
	"teams.microsoft.com",
	"banking",
	"account",
	"signin",
	"login",
	"paypal.com",
	"myaccount",
	"checkout",
}

// ConfidentialityFilter decides which pages must never be indexed.
type ConfidentialityFilter struct {
	patterns []string
}

// NewConfidentialityFilter creates a filter from the built-in list plus extra patterns.
func NewConfidentialityFilter(extra ...string) *ConfidentialityFilter {
	patterns := make([]string, 0, len(confidentialPatterns)+len(extra))
	patterns = append(patterns, confidentialPatterns...)
	for _, p := range extra {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	return &ConfidentialityFilter{patterns: patterns}
}

// IsConfidential reports whether rawURL matches a confidential pattern.
// A URL that cannot be parsed is treated as confidential.
func (f *ConfidentialityFilter) IsConfidential(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return true
	}

	host := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)
	for _, p := range f.patterns {
		if strings.Contains(host, p) || strings.Contains(path, p) {
			return true
		}
	}
	return false
}
