package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates the document produced no readable text.
	ErrEmptyDocument = errors.New("document is empty or unreadable")

	// ErrUnsupportedType indicates an unknown document format or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Extraction cannot run without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	// Retrieval degrades to a placeholder index without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrExtractionFailed indicates a schema could not be populated after all attempts.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrSchemaMismatch indicates model output did not conform to the requested schema.
	ErrSchemaMismatch = errors.New("output does not match schema")

	// ErrNoMeeting indicates the text is not a meeting request or confidence was too low.
	ErrNoMeeting = errors.New("no valid meeting detected")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ExtractionError records why a single schema could not be extracted.
// It is stored in the AggregatedRecord as the error variant of an
// ExtractionResult and never aborts the other sections.
type ExtractionError struct {
	// Schema is the schema that failed.
	Schema SchemaName

	// Attempts is how many calls were made before giving up.
	Attempts int

	// Err is the last underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Schema, ErrExtractionFailed)
	}
	return fmt.Sprintf("extract %s after %d attempt(s): %v", e.Schema, e.Attempts, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is reports ErrExtractionFailed as a match so callers can test with errors.Is.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
