package domain

import (
	"strconv"
	"time"
)

// Page is visited-page content as delivered by the browser extension.
// It is the input to ingestion, before filtering and normalisation.
type Page struct {
	// URL is the page address.
	URL string

	// Title is the page title.
	Title string

	// Content is the raw page body (HTML, plain text, or PDF bytes).
	Content []byte

	// MIMEType is the content type. Empty means text/plain.
	MIMEType string
}

// Document represents an indexed page.
// Documents are immutable; re-indexing a URL creates a new document.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URL is where the page was visited.
	URL string

	// Title is the human-readable title.
	Title string

	// Content is the full cleaned text before chunking.
	Content string

	// MIMEType is the content type the text was normalised from.
	MIMEType string

	// CreatedAt is when the document was indexed.
	CreatedAt time.Time
}

// Chunk represents a searchable unit within a document.
type Chunk struct {
	// ID is derived from the document ID and position, see ChunkID.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// URL and Title are copied from the parent for display.
	URL   string
	Title string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the chunker output.
	Position int

	// Timestamp is when the chunk was created.
	Timestamp time.Time
}

// ChunkID returns the identifier of the chunk at position within a document.
func ChunkID(docID string, position int) string {
	return docID + "_" + strconv.Itoa(position)
}
