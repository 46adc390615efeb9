package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// TextNormaliser cleans raw résumé text before chunking.
// Implementations must be deterministic and idempotent.
type TextNormaliser interface {
	Normalise(text string) string
}

// Chunker splits normalised text into retrievable chunks.
type Chunker interface {
	// Chunks lazily yields the chunks of text in document order.
	Chunks(documentID, text string) iter.Seq[domain.Chunk]

	// Split collects all chunks. Empty text yields no chunks.
	Split(ctx context.Context, documentID, text string) ([]domain.Chunk, error)
}

// OutputValidator checks decoded model output against a JSON schema.
type OutputValidator interface {
	// Validate returns an error wrapping domain.ErrSchemaMismatch when
	// value does not conform to schema.
	Validate(schema map[string]any, value any) error
}
