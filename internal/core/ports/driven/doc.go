// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LLMService: Populates schemas from retrieved text
//   - TextNormaliser: Cleans extracted résumé text
//   - Chunker: Splits cleaned text into retrievable chunks
//   - VectorIndexFactory: Creates a per-document vector index
//   - OutputValidator: Checks model output against a JSON schema
//   - NormaliserRegistry: Turns uploaded files into text
//   - ResumeStore, MeetingStore: Record persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Without it, retrieval falls back to a placeholder index.
//   - PromptStore: Without it, built-in instructions are used.
//   - CalendarPublisher: Without it, scheduled meetings are only stored locally.
//   - Connector: Only needed for inbox watching.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
