// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ResultOpened is sent when a search result is opened for preview.
type ResultOpened struct {
	Result domain.SearchResult
}

// AnswerCompleted carries a chat answer back to the model.
type AnswerCompleted struct {
	Question string
	Response *domain.ChatResponse
	Err      error
}

// StatsLoaded carries index statistics.
type StatsLoaded struct {
	Stats *domain.IndexStats
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewPreview shows the full text of one result.
	ViewPreview
	// ViewAsk is the question and answer view.
	ViewAsk
	// ViewStats shows index statistics.
	ViewStats
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewPreview:
		return "preview"
	case ViewAsk:
		return "ask"
	case ViewStats:
		return "stats"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
