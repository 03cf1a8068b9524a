package mcp

import (
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Search provides reranked search. Required.
	Search driving.SearchService

	// Chat answers questions. Optional; the ask tool reports chat as disabled without it.
	Chat driving.ChatService

	// Index provides statistics. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
