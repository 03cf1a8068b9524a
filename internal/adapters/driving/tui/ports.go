// Package tui provides an interactive terminal user interface for searching
// browsing history. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Search is required.
	Search driving.SearchService

	// Chat answers questions. Without it the ask view reports that chat is
	// not configured.
	Chat driving.ChatService

	// Index provides statistics for the stats view.
	Index driving.IndexService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService, chat driving.ChatService, index driving.IndexService) *Ports {
	return &Ports{
		Search: search,
		Chat:   chat,
		Index:  index,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
