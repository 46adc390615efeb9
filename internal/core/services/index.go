package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Retriever returns the chunks most relevant to a query.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]domain.Chunk, error)
}

// Ensure ChunkIndex implements the interface.
var _ Retriever = (*ChunkIndex)(nil)

// IndexBuilder embeds chunks and loads them into a fresh vector index.
type IndexBuilder struct {
	embedder driven.EmbeddingService
	newIndex driven.VectorIndexFactory
	log      *zap.Logger
}

// IndexOption configures an IndexBuilder.
type IndexOption func(*IndexBuilder)

// WithIndexLogger sets the builder logger.
func WithIndexLogger(l *zap.Logger) IndexOption {
	return func(b *IndexBuilder) {
		if l != nil {
			b.log = l
		}
	}
}

// NewIndexBuilder creates an index builder.
// The embedder may be nil, in which case every index is degraded.
func NewIndexBuilder(embedder driven.EmbeddingService, factory driven.VectorIndexFactory, opts ...IndexOption) *IndexBuilder {
	b := &IndexBuilder{
		embedder: embedder,
		newIndex: factory,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ChunkIndex is a per-document semantic index over chunks.
// It is read-only once built.
type ChunkIndex struct {
	chunks   []domain.Chunk
	byID     map[string]domain.Chunk
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
	degraded bool
	log      *zap.Logger
}

// Build embeds chunks and indexes them. With no chunks, or when the
// embedding provider fails, the index holds only a placeholder chunk.
// The only error returned is a vector index write failure.
func (b *IndexBuilder) Build(ctx context.Context, documentID string, chunks []domain.Chunk) (*ChunkIndex, error) {
	if b.newIndex == nil {
		return nil, errors.New("build index: no vector index factory")
	}

	idx := &ChunkIndex{
		vectors:  b.newIndex(),
		embedder: b.embedder,
		log:      b.log,
	}

	if len(chunks) == 0 {
		b.log.Warn("no chunks to index, using placeholder", zap.String("document", documentID))
		return idx, b.loadPlaceholder(ctx, idx, documentID)
	}

	vectors, err := b.embed(ctx, chunks)
	if err != nil {
		b.log.Warn("embedding failed, using placeholder index",
			zap.String("document", documentID), zap.Error(err))
		return idx, b.loadPlaceholder(ctx, idx, documentID)
	}

	if err := idx.load(ctx, chunks, vectors); err != nil {
		return nil, err
	}
	b.log.Debug("index built", zap.String("document", documentID), zap.Int("chunks", len(chunks)))
	return idx, nil
}

func (b *IndexBuilder) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	if b.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(chunks))
	}
	return vectors, nil
}

// loadPlaceholder indexes the placeholder chunk, degrading to position
// order when even the placeholder cannot be embedded.
func (b *IndexBuilder) loadPlaceholder(ctx context.Context, idx *ChunkIndex, documentID string) error {
	placeholder := []domain.Chunk{{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Content:    domain.PlaceholderChunkText,
	}}

	vectors, err := b.embed(ctx, placeholder)
	if err != nil {
		idx.setChunks(placeholder)
		idx.degraded = true
		return nil
	}
	return idx.load(ctx, placeholder, vectors)
}

func (i *ChunkIndex) setChunks(chunks []domain.Chunk) {
	i.chunks = chunks
	i.byID = make(map[string]domain.Chunk, len(chunks))
	for _, c := range chunks {
		i.byID[c.ID] = c
	}
}

func (i *ChunkIndex) load(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	i.setChunks(chunks)
	for n, c := range chunks {
		if err := i.vectors.Add(ctx, c.ID, vectors[n]); err != nil {
			return fmt.Errorf("index chunk %d: %w", c.Position, err)
		}
	}
	return nil
}

// Search returns at most k chunks ordered by descending similarity to
// query, ties broken by chunk position. A degraded index, or a query that
// cannot be embedded, yields chunks in position order.
func (i *ChunkIndex) Search(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	if k <= 0 || len(i.chunks) == 0 {
		return nil, nil
	}
	if i.degraded || i.embedder == nil {
		return i.inOrder(k), nil
	}

	qv, err := i.embedder.Embed(ctx, query)
	if err != nil {
		i.log.Warn("query embedding failed, returning chunks in order", zap.Error(err))
		return i.inOrder(k), nil
	}

	hits, err := i.vectors.Search(ctx, qv, len(i.chunks))
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	type ranked struct {
		chunk domain.Chunk
		score float64
	}
	results := make([]ranked, 0, len(hits))
	for _, h := range hits {
		if c, ok := i.byID[h.ChunkID]; ok {
			results = append(results, ranked{chunk: c, score: h.Similarity})
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].score != results[b].score {
			return results[a].score > results[b].score
		}
		return results[a].chunk.Position < results[b].chunk.Position
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]domain.Chunk, k)
	for n := range out {
		out[n] = results[n].chunk
	}
	return out, nil
}

func (i *ChunkIndex) inOrder(k int) []domain.Chunk {
	out := make([]domain.Chunk, len(i.chunks))
	copy(out, i.chunks)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Position < out[b].Position })
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// Len returns the number of indexed chunks.
func (i *ChunkIndex) Len() int {
	return len(i.chunks)
}

// Degraded reports whether the index returns chunks without ranking.
func (i *ChunkIndex) Degraded() bool {
	return i.degraded
}

// Placeholder reports whether the index holds only the placeholder chunk.
func (i *ChunkIndex) Placeholder() bool {
	return len(i.chunks) == 1 && i.chunks[0].Content == domain.PlaceholderChunkText
}

// Close releases the vector index.
func (i *ChunkIndex) Close() error {
	return i.vectors.Close()
}
