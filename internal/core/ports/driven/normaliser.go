package driven

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// Normaliser turns an uploaded file into plain text.
// Each normaliser handles specific MIME types (e.g., PDF, DOCX).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the document text.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Normalisation only fills Document.Content; cleaning and chunking happen later.
type NormaliseResult struct {
	// Document is the extracted document with Content populated.
	Document domain.Document
}
