// Package validator checks model output against JSON schemas.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.OutputValidator = (*Validator)(nil)

const resourceName = "schema.json"

// Validator compiles JSON schemas on first use and caches them by content.
// It is safe for concurrent use.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// New creates a validator.
func New() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

// Validate checks value against schema. Value must be the result of
// decoding JSON into an any. Violations wrap domain.ErrSchemaMismatch.
func (v *Validator) Validate(schema map[string]any, value any) error {
	compiled, err := v.compile(schema)
	if err != nil {
		return err
	}
	if err := compiled.Validate(value); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}
	return nil
}

// ValidateJSON decodes data and validates it against schema.
func (v *Validator) ValidateJSON(schema map[string]any, data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: unmarshal data: %v", domain.ErrSchemaMismatch, err)
	}
	return v.Validate(schema, value)
}

func (v *Validator) compile(schema map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	key := string(b)

	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.compiled[key]; ok {
		return s, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	v.compiled[key] = s
	return s, nil
}
