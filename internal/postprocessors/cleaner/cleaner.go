// Package cleaner normalises extracted résumé text before chunking.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.TextNormaliser = (*Cleaner)(nil)
	_ driven.PostProcessor  = (*Cleaner)(nil)
)

var (
	tagPattern       = regexp.MustCompile(`<[^>]+>`)
	artifactPattern  = regexp.MustCompile(`(?i)\b(page\s*\d+|\d+\s*of\s*\d+|confidential|resume|cv|curriculum\s+vitae)\b`)
	separatorPattern = regexp.MustCompile(`[-_=]{3,}`)
	spacePattern     = regexp.MustCompile(`[ \t\x{00a0}]+`)
	bulletPattern    = regexp.MustCompile(`^[•●▪◦○■►➢✓❖·][ \t]*`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
)

// maxPasses bounds the fixpoint loop. Real input settles in two passes.
const maxPasses = 8

// Cleaner strips markup, boilerplate and noise from résumé text and
// rewrites section headers into a canonical vocabulary.
// It implements both TextNormaliser and PostProcessor.
type Cleaner struct{}

// New creates a cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

// Name returns the processor name.
func (c *Cleaner) Name() string {
	return "cleaner"
}

// Process normalises doc.Content into doc.Normalised and passes chunks through.
func (c *Cleaner) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	doc.Normalised = c.Normalise(doc.Content)
	return chunks, nil
}

// Normalise returns the cleaned form of text.
// The result is a fixed point: normalising it again returns it unchanged.
func (c *Cleaner) Normalise(text string) string {
	for range maxPasses {
		next := pass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func pass(text string) string {
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(dropControl, text)

	for {
		next := artifactPattern.ReplaceAllString(text, "")
		next = separatorPattern.ReplaceAllString(next, "")
		if next == text {
			break
		}
		text = next
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spacePattern.ReplaceAllString(line, " "))
		line = bulletPattern.ReplaceAllString(line, "- ")
		out = appendHeaderLines(out, line)
	}

	text = strings.Join(out, "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// appendHeaderLines appends line to out, canonicalising a header line or
// splitting a "Header: rest" line into the header and its remainder.
func appendHeaderLines(out []string, line string) []string {
	if h, ok := CanonicalHeader(line); ok {
		return append(out, "", h, "")
	}
	if i := strings.IndexByte(line, ':'); i > 0 {
		if h, ok := CanonicalHeader(line[:i]); ok {
			rest := strings.TrimSpace(line[i+1:])
			out = append(out, "", h, "")
			if rest == "" {
				return out
			}
			return appendHeaderLines(out, rest)
		}
	}
	return append(out, line)
}

// dropControl removes C0 and C1 control characters except newline and tab.
func dropControl(r rune) rune {
	switch {
	case r == '\n' || r == '\t':
		return r
	case r < 0x20, r >= 0x7f && r <= 0x9f:
		return -1
	default:
		return r
	}
}
