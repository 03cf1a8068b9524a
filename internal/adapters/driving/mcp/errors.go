// Package mcp provides an MCP (Model Context Protocol) server adapter for webrecall.
// It lets AI assistants search and question the user's indexed browsing history.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
