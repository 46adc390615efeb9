// Package plaintext extracts text from plain text and Markdown résumés.
package plaintext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const byteOrderMark = "\uFEFF"

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		domain.MIMETypePlainText,
		"text/markdown",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes the bytes as UTF-8. Invalid sequences become U+FFFD
// and a leading byte order mark is dropped.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.ToValidUTF8(string(raw.Content), "�")
	content = strings.TrimPrefix(content, byteOrderMark)

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     titleFromURI(raw),
		MIMEType:  raw.MIMEType,
		Content:   content,
		Metadata:  copyMetadata(raw.Metadata),
		CreatedAt: time.Now(),
	}
	doc.Metadata["format"] = "text"

	return &driven.NormaliseResult{Document: doc}, nil
}

// titleFromURI prefers a title set by the producer, then the file name.
func titleFromURI(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	name := raw.Filename()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// copyMetadata returns a shallow copy of metadata, never nil.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
