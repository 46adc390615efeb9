package driven

import "github.com/custodia-labs/resumex/internal/core/domain"

// PromptStore provides access to extraction instructions.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// PromptName returns the prompt name holding the instruction for a schema.
func PromptName(schema domain.SchemaName) string {
	return "schema_" + string(schema)
}

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their instructions customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use the built-in instructions.
	SetPromptStore(store PromptStore)
}
