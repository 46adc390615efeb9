// Package memory provides an exact in-memory vector index.
//
// Résumés produce tens of chunks, so a brute-force cosine scan is both
// exact and fast enough. The index lives for one parse request.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	id     string
	vector []float32
	norm   float64
	seq    int
}

// Index is a brute-force cosine similarity index.
type Index struct {
	mu      sync.RWMutex
	entries map[string]*entry
	dim     int
	seq     int
}

// New creates an empty index. The dimension is fixed by the first Add.
func New() *Index {
	return &Index{entries: make(map[string]*entry)}
}

// Factory returns a driven.VectorIndexFactory producing fresh indexes.
func Factory() driven.VectorIndexFactory {
	return func() driven.VectorIndex { return New() }
}

// Add inserts or replaces the vector for a chunk ID.
// Replacing keeps the original insertion order.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return fmt.Errorf("%w: empty chunk id or vector", domain.ErrInvalidInput)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dim == 0 {
		idx.dim = len(embedding)
	}
	if len(embedding) != idx.dim {
		return fmt.Errorf("%w: vector dimension %d, index dimension %d",
			domain.ErrInvalidInput, len(embedding), idx.dim)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	if e, ok := idx.entries[chunkID]; ok {
		e.vector, e.norm = vec, norm(vec)
		return nil
	}
	idx.entries[chunkID] = &entry{id: chunkID, vector: vec, norm: norm(vec), seq: idx.seq}
	idx.seq++
	return nil
}

// Delete removes a vector. Unknown IDs are ignored.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.entries, chunkID)
	if len(idx.entries) == 0 {
		idx.dim = 0
	}
	return nil
}

// Search returns up to k hits ordered by descending cosine similarity.
// Equal scores keep insertion order.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
			domain.ErrInvalidInput, len(query), idx.dim)
	}

	qn := norm(query)
	type scored struct {
		hit driven.VectorHit
		seq int
	}
	results := make([]scored, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, scored{
			hit: driven.VectorHit{ChunkID: e.id, Similarity: cosine(query, qn, e.vector, e.norm)},
			seq: e.seq,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].hit.Similarity != results[j].hit.Similarity {
			return results[i].hit.Similarity > results[j].hit.Similarity
		}
		return results[i].seq < results[j].seq
	})

	if k > len(results) {
		k = len(results)
	}
	hits := make([]driven.VectorHit, k)
	for i := range hits {
		hits[i] = results[i].hit
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close drops all vectors.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[string]*entry)
	idx.dim = 0
	return nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero length.
func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (an * bn)
}
