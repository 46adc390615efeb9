// Package domain defines the core business entities for resumex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded résumé and its normalised text
//   - Chunk: A retrievable unit of a document's text
//   - SchemaDescriptor: A named field set the extractor must populate
//   - AggregatedRecord: Per-section extraction results for one document
//   - MeetingCandidate: A structured meeting request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
