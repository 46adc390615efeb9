package driven

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// Connector fetches résumé files from an inbox.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Validate checks the inbox exists and is readable.
	Validate(ctx context.Context) error

	// FullSync fetches all documents currently in the inbox.
	// Returns channels for documents and errors.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch listens for real-time changes.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}
