// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the resumex home directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable extraction instructions
package file
