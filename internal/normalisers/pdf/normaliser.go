// Package pdf extracts text from PDF résumés using poppler's pdftotext.
// Page counts come from pdfcpu.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// DefaultBinary is the pdftotext executable looked up on PATH.
const DefaultBinary = "pdftotext"

// maxTitleLength bounds the first-line title heuristic.
const maxTitleLength = 200

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner    CommandRunner
	binary    string
	lookPath  bool
	pageCount func(path string) (int, error)
}

// New creates a PDF normaliser that shells out to pdftotext.
func New() *Normaliser {
	return &Normaliser{
		runner:    execRunner{},
		binary:    DefaultBinary,
		lookPath:  true,
		pageCount: api.PageCountFile,
	}
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
// The PATH lookup is skipped.
func NewWithRunner(runner CommandRunner) *Normaliser {
	n := New()
	n.runner = runner
	n.lookPath = false
	return n
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read PDF résumés. It ships with poppler:
  macOS:         brew install poppler
  Debian/Ubuntu: apt install poppler-utils
  Fedora:        dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypePDF}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise writes the PDF to a temporary file and extracts its text.
// Form feeds between pages become blank lines.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if n.lookPath {
		if _, err := exec.LookPath(n.binary); err != nil {
			return nil, ErrPDFToolNotFound
		}
	}

	dir, err := os.MkdirTemp("", "resumex-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("pdf: creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(path, raw.Content, 0600); err != nil {
		return nil, fmt.Errorf("pdf: writing temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, n.binary, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	text := string(out)
	pages := 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	if count, err := n.pageCount(path); err == nil && count > 0 {
		pages = count
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\f", "\n\n"))

	metadata := copyMetadata(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "pdf"
	metadata["pages"] = pages

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     extractTitle(text, raw.URI),
		MIMEType:  raw.MIMEType,
		Content:   text,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	return &driven.NormaliseResult{Document: doc}, nil
}

// extractTitle uses the first short non-empty line, which on a résumé is
// usually the candidate's name, falling back to the file name.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLength {
			return line
		}
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.NewReplacer("_", " ", "-", " ").Replace(filename)
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
