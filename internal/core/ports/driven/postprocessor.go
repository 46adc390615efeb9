package driven

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// PostProcessor transforms a document or its chunks.
// PostProcessors are chained in a pipeline (cleaning, then chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// If the processor rewrites the document (e.g., cleaner), it updates
	// doc.Normalised and passes chunks through.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
