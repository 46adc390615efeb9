package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/logger"
)

// DefaultTemperature is used for extraction calls.
const DefaultTemperature = 0.1

const responsePreviewLength = 200

// Ensure Extractor supports custom prompts.
var _ driven.PromptStoreAware = (*Extractor)(nil)

// Extractor populates a schema from retrieved text with one LLM call per
// attempt. Output is validated against the schema before it is decoded.
type Extractor struct {
	llm         driven.LLMService
	validator   driven.OutputValidator
	retry       RetryPolicy
	temperature float64
	log         *zap.Logger

	mu      sync.RWMutex
	prompts driven.PromptStore
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(p RetryPolicy) ExtractorOption {
	return func(e *Extractor) {
		e.retry = p
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ExtractorOption {
	return func(e *Extractor) {
		if t >= 0 {
			e.temperature = t
		}
	}
}

// WithExtractorLogger sets the extractor logger.
func WithExtractorLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPromptStore sets the prompt store used to override instructions.
func WithPromptStore(store driven.PromptStore) ExtractorOption {
	return func(e *Extractor) {
		e.prompts = store
	}
}

// NewExtractor creates an extractor. The validator is optional; without it
// output is only checked by decoding.
func NewExtractor(llm driven.LLMService, validator driven.OutputValidator, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		llm:         llm,
		validator:   validator,
		retry:       DefaultRetryPolicy(),
		temperature: DefaultTemperature,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *Extractor) SetPromptStore(store driven.PromptStore) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prompts = store
}

// ModelName returns the LLM model name, or "" without an LLM.
func (e *Extractor) ModelName() string {
	if e.llm == nil {
		return ""
	}
	return e.llm.ModelName()
}

// Instruction returns the instruction for a schema, preferring a stored
// prompt over the built-in one.
func (e *Extractor) Instruction(schema domain.SchemaDescriptor) string {
	e.mu.RLock()
	store := e.prompts
	e.mu.RUnlock()

	if store != nil {
		if p, err := store.Load(driven.PromptName(schema.Name)); err == nil && strings.TrimSpace(p) != "" {
			return p
		}
	}
	return schema.Instruction
}

// Extract asks the LLM to fill schema from the retrieved text. An empty instruction
// selects Instruction(schema). On failure it returns *domain.ExtractionError
// and never a partial value.
func (e *Extractor) Extract(
	ctx context.Context, retrieved, instruction string, schema domain.SchemaDescriptor,
) (any, error) {
	log := e.log.With(zap.String(logger.FieldSchema, string(schema.Name)))

	if e.llm == nil {
		return nil, &domain.ExtractionError{Schema: schema.Name, Err: domain.ErrLLMUnavailable}
	}
	if schema.New == nil {
		return nil, &domain.ExtractionError{
			Schema: schema.Name,
			Err:    fmt.Errorf("%w: schema has no constructor", domain.ErrInvalidInput),
		}
	}
	if instruction == "" {
		instruction = e.Instruction(schema)
	}

	system, err := systemMessage(instruction, schema.JSONSchema)
	if err != nil {
		return nil, &domain.ExtractionError{Schema: schema.Name, Err: err}
	}
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: retrieved},
	}
	opts := driven.ChatOptions{Temperature: e.temperature, JSONSchema: schema.JSONSchema}

	start := time.Now()
	var value any
	attempts, err := e.retry.Do(ctx, func(attempt int) error {
		v, err := e.attempt(ctx, messages, opts, schema)
		if err != nil {
			log.Debug("extraction attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		log.Warn("extraction failed", zap.Int("attempts", attempts), zap.Error(err))
		return nil, &domain.ExtractionError{Schema: schema.Name, Attempts: attempts, Err: err}
	}

	log.Debug("extracted", zap.Int("attempts", attempts), zap.Duration("elapsed", time.Since(start)))
	return value, nil
}

func (e *Extractor) attempt(
	ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions, schema domain.SchemaDescriptor,
) (any, error) {
	reply, err := e.llm.Chat(ctx, messages, opts)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	e.log.Debug("llm response",
		zap.String(logger.FieldSchema, string(schema.Name)),
		zap.String("response_preview", logger.TruncateForLog(reply, responsePreviewLength)))

	raw := ExtractJSON(reply)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", domain.ErrSchemaMismatch)
	}

	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}
	if e.validator != nil && schema.JSONSchema != nil {
		if err := e.validator.Validate(schema.JSONSchema, generic); err != nil {
			if !errors.Is(err, domain.ErrSchemaMismatch) {
				err = fmt.Errorf("%w: %w", domain.ErrSchemaMismatch, err)
			}
			return nil, err
		}
	}

	out := schema.New()
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}
	return out, nil
}

func systemMessage(instruction string, schema map[string]any) (string, error) {
	if schema == nil {
		return instruction, nil
	}
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return instruction +
		"\n\nRespond with a single JSON object that matches this JSON schema:\n" +
		string(b), nil
}

// ExtractJSON strips markdown code fences and returns the outermost JSON
// object in s, or "" when there is none.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Unbalanced; fall back to the last closing brace.
	if end := strings.LastIndexByte(s, '}'); end > start {
		return s[start : end+1]
	}
	return ""
}
