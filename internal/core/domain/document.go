package domain

import "time"

// Document represents one uploaded résumé for the duration of a parse request.
// It is discarded once the AggregatedRecord has been derived from it.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, upload name).
	URI string

	// Title is the human-readable title, usually the file name.
	Title string

	// MIMEType is the content type the text was extracted from.
	MIMEType string

	// Content is the raw extracted text before normalisation.
	Content string

	// Normalised is the cleaned text the chunker operates on.
	Normalised string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was received.
	CreatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Chunks are immutable once created and never shared across documents.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk, including the
	// section header it was derived from.
	Content string

	// Section is the canonical header of the originating span, or empty
	// for text that precedes the first header.
	Section string

	// Position is the ordinal position within the document.
	Position int
}

// PlaceholderChunkText is indexed when a document yields no chunks or the
// embedding provider is unreachable, so retrieval degrades instead of failing.
const PlaceholderChunkText = "Resume appears to be empty or unreadable"
