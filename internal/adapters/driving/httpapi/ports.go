package httpapi

import (
	"errors"

	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
)

// Ports holds the driving ports the API calls into.
type Ports struct {
	Index  driving.IndexService
	Search driving.SearchService
	Chat   driving.ChatService
	Ingest driving.IngestService
}

// Validate checks that every port is set.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("httpapi: ports are required")
	}
	if p.Index == nil || p.Search == nil || p.Chat == nil || p.Ingest == nil {
		return errors.New("httpapi: index, search, chat and ingest services are required")
	}
	return nil
}
