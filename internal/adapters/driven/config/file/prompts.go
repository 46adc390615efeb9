package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads extraction instructions from user-editable files.
// Each schema has a file named after driven.PromptName, seeded with the
// built-in instruction on first use. Files are never overwritten.
//
// Directory creation is lazy: nothing touches the disk until the first Load.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	defaults  map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts returns the built-in instruction for every schema, keyed by
// prompt name.
func defaultPrompts() map[string]string {
	prompts := make(map[string]string)
	for _, name := range domain.AllSchemaNames() {
		if d, ok := domain.LookupSchema(name); ok {
			prompts[driven.PromptName(name)] = d.Instruction
		}
	}
	return prompts
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to prompts/ under DefaultDir.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
		defaults:  defaultPrompts(),
	}, nil
}

// Load returns the prompt for the given name.
// A missing or blank file falls back to the built-in prompt. Unknown names
// return domain.ErrNotFound.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	fallback, known := s.defaults[name]
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		if known {
			return fallback, nil
		}
		if err == nil || os.IsNotExist(err) {
			return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Path returns the file backing a prompt.
func (s *PromptStore) Path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// initialise creates the prompt directory and seeds missing prompt files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range s.defaults {
		path := s.Path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	var b strings.Builder
	b.WriteString("# resumex prompts\n\n")
	b.WriteString("Each file holds the instruction sent to the LLM for one extraction schema.\n")
	b.WriteString("Section instructions also drive retrieval: the text is embedded to rank\n")
	b.WriteString("which parts of the résumé are sent with the instruction.\n\n")
	b.WriteString("Edit a file to change extraction behaviour. Delete it or leave it empty\n")
	b.WriteString("to restore the built-in instruction on the next run.\n\n")
	b.WriteString("## Files\n\n")
	for _, name := range domain.AllSchemaNames() {
		fmt.Fprintf(&b, "- `%s.txt`\n", driven.PromptName(name))
	}
	return os.WriteFile(path, []byte(b.String()), 0600)
}
