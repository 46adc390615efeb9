// Package docx extracts text from Word (OOXML) résumés, including tables.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"

	// cellSeparator joins the cells of a table row on one line.
	cellSeparator = " | "
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{domain.MIMETypeDOCX}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts paragraph and table text from word/document.xml.
// Each paragraph becomes a line; each table row becomes one line with its
// cells joined by " | ".
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("docx: %w: not a zip archive", domain.ErrInvalidInput)
	}

	part, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fmt.Errorf("docx: %w: missing %s", domain.ErrInvalidInput, documentPart)
	}

	content, err := documentText(part)
	if err != nil {
		return nil, fmt.Errorf("docx: %w: %v", domain.ErrInvalidInput, err)
	}

	metadata := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["format"] = "docx"

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     title(reader, raw.Filename()),
		MIMEType:  raw.MIMEType,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	return &driven.NormaliseResult{Document: doc}, nil
}

// readPart returns the bytes of a named archive entry, or nil if absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: opening %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("docx: reading %s: %w", name, err)
		}
		return data, nil
	}
	return nil, nil
}

// textWriter accumulates lines while walking the document body.
type textWriter struct {
	lines  []string
	para   strings.Builder
	cell   []string
	row    []string
	tables int
	inText bool
}

func (w *textWriter) endParagraph() {
	text := strings.TrimSpace(w.para.String())
	w.para.Reset()
	if w.tables > 0 {
		if text != "" {
			w.cell = append(w.cell, text)
		}
		return
	}
	w.lines = append(w.lines, text)
}

func (w *textWriter) endCell() {
	w.row = append(w.row, strings.Join(w.cell, " "))
	w.cell = nil
}

func (w *textWriter) endRow() {
	if line := strings.TrimSpace(strings.Join(w.row, cellSeparator)); strings.Trim(line, "| ") != "" {
		w.lines = append(w.lines, line)
	}
	w.row = nil
}

// documentText streams the WordprocessingML body. Only local names are
// matched, so any namespace prefix works.
func documentText(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var w textWriter

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				w.inText = true
			case "tab":
				w.para.WriteByte('\t')
			case "br", "cr":
				w.para.WriteByte('\n')
			case "tbl":
				w.tables++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				w.inText = false
			case "p":
				w.endParagraph()
			case "tc":
				w.endCell()
			case "tr":
				w.endRow()
			case "tbl":
				if w.tables > 0 {
					w.tables--
				}
			}
		case xml.CharData:
			if w.inText {
				w.para.Write(t)
			}
		}
	}

	return strings.TrimSpace(strings.Join(w.lines, "\n")), nil
}

type coreXML struct {
	Title string `xml:"title"`
}

// title reads dc:title from docProps/core.xml, falling back to the file name.
func title(reader *zip.Reader, filename string) string {
	if data, err := readPart(reader, corePart); err == nil && data != nil {
		var core coreXML
		if err := xml.Unmarshal(data, &core); err == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
		}
	}

	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		filename = filename[:i]
	}
	return strings.NewReplacer("_", " ", "-", " ").Replace(filename)
}
