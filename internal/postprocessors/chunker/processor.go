// Package chunker provides a section-aware text chunking processor.
package chunker

import (
	"context"
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/postprocessors/cleaner"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1100

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 250

// Verify interface compliance.
var (
	_ driven.Chunker       = (*Processor)(nil)
	_ driven.PostProcessor = (*Processor)(nil)
)

// Processor splits normalised text into chunks aligned to section headers.
// Every chunk of a section carries the section header as a prefix.
// It implements the Chunker and PostProcessor interfaces.
type Processor struct {
	chunkSize int
	overlap   int
	newID     func() string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithIDFunc overrides chunk ID generation.
func WithIDFunc(fn func() string) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		newID:     func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document into chunks.
// It reads doc.Normalised, falling back to doc.Content when the document
// has not been through the cleaner. Input chunks are ignored.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	text := doc.Normalised
	if text == "" {
		text = doc.Content
	}
	return p.Split(ctx, doc.ID, text)
}

// Split collects the chunks of text. Empty text produces no chunks.
func (p *Processor) Split(ctx context.Context, documentID, text string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for c := range p.Chunks(documentID, text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// Chunks yields the chunks of text in document order.
// Work is done as the sequence is consumed; stopping early skips the rest.
func (p *Processor) Chunks(documentID, text string) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		s := &splitter{size: p.chunkSize, overlap: p.overlap, separators: DefaultSeparators}
		position := 0
		emit := func(header, content string) bool {
			c := domain.Chunk{
				ID:         p.newID(),
				DocumentID: documentID,
				Content:    content,
				Section:    header,
				Position:   position,
			}
			position++
			return yield(c)
		}

		for _, sp := range sections(text) {
			pieces := s.split(sp.body)
			if sp.header == "" {
				for _, piece := range pieces {
					if !emit("", piece) {
						return
					}
				}
				continue
			}
			if len(pieces) == 0 {
				if !emit(sp.header, sp.header) {
					return
				}
				continue
			}
			for _, piece := range pieces {
				if !emit(sp.header, sp.header+"\n\n"+piece) {
					return
				}
			}
		}
	}
}

type span struct {
	header string
	body   string
}

// sections cuts text at lines that are canonical headers. Text before the
// first header becomes a span without a header.
func sections(text string) []span {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		spans  []span
		header string
		body   []string
		opened bool
	)
	flush := func() {
		b := strings.TrimSpace(strings.Join(body, "\n"))
		if header != "" || b != "" {
			spans = append(spans, span{header: header, body: b})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if cleaner.IsCanonicalHeader(trimmed) {
			if opened || len(body) > 0 {
				flush()
			}
			header, body, opened = trimmed, nil, true
			continue
		}
		body = append(body, line)
	}
	flush()
	return spans
}
