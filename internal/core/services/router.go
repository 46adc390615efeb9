package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// Router turns a schema query into extraction context.
// It is stateless and safe for concurrent use.
type Router struct{}

// NewRouter creates a router.
func NewRouter() *Router {
	return &Router{}
}

// Context retrieves the top chunks for q and joins their contents with a
// single space, in retrieval order. Duplicates are kept.
func (r *Router) Context(ctx context.Context, index Retriever, q domain.SchemaQuery) (string, error) {
	if index == nil {
		return "", fmt.Errorf("%w: nil index", domain.ErrInvalidInput)
	}
	k := q.K
	if k <= 0 {
		k = domain.DefaultK
	}

	chunks, err := index.Search(ctx, q.Text, k)
	if err != nil {
		return "", fmt.Errorf("retrieve %s: %w", q.Schema, err)
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, " "), nil
}
