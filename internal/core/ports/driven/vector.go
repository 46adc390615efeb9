package driven

import "context"

// VectorIndex provides semantic similarity search over one document's chunks.
type VectorIndex interface {
	// Add inserts a vector for the given chunk ID.
	Add(ctx context.Context, chunkID string, embedding []float32) error

	// Delete removes a vector from the index.
	Delete(ctx context.Context, chunkID string) error

	// Search finds the k nearest neighbours to the query vector.
	// Hits are ordered by descending similarity; equal scores keep insertion order.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}

// VectorIndexFactory creates a fresh, empty index. Each document gets its own.
type VectorIndexFactory func() VectorIndex
