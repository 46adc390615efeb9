package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/normalisers/docx"
	"github.com/custodia-labs/resumex/internal/normalisers/pdf"
	"github.com/custodia-labs/resumex/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches documents to the highest-priority normaliser that
// supports their MIME type. Ties go to the normaliser registered first.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry with the PDF, DOCX and plain text normalisers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise transforms a raw document using the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = domain.MIMETypeForPath(raw.URI)
	}

	n := r.lookup(mimeType)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, mimeType)
	}

	doc := *raw
	doc.MIMEType = mimeType
	return n.Normalise(ctx, &doc)
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if m == mimeType {
				return n
			}
		}
	}
	return nil
}
