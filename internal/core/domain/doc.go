// Package domain defines the core business entities for webrecall.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - Page: visited-page content as sent by the browser extension
//   - Document: an indexed page
//   - Chunk: a bounded slice of a document, the unit of retrieval
//   - Snapshot: the jointly persisted vectors and chunk metadata
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
