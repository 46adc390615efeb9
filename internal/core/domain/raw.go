package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument represents the opaque bytes of an uploaded file.
// It is the input to a Normaliser, which turns it into text.
type RawDocument struct {
	// URI is the original location (file path, upload name).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains producer-specific key-value pairs.
	Metadata map[string]any
}

// Filename returns the base name of the document URI.
func (r RawDocument) Filename() string {
	if r.URI == "" {
		return ""
	}
	return filepath.Base(r.URI)
}

// ChangeType represents the type of inbox change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// RawDocumentChange represents a change event from a watched inbox.
type RawDocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected document. Content is empty for deletions.
	Document RawDocument
}

// MIME types of the document formats résumés are accepted in.
const (
	MIMETypePDF       = "application/pdf"
	MIMETypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypePlainText = "text/plain"
)

// MIMETypeForPath guesses the MIME type of a résumé file from its extension.
// Returns an empty string for unsupported formats.
func MIMETypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MIMETypePDF
	case ".docx":
		return MIMETypeDOCX
	case ".txt", ".text", ".md":
		return MIMETypePlainText
	default:
		return ""
	}
}
