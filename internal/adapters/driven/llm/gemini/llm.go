// Package gemini provides LLM services backed by the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// models is the subset of genai.Models used here.
type models interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model name (default: gemini-2.0-flash).
	Model string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// BaseURL overrides the API endpoint.
	BaseURL string
}

// LLMService generates chat completions with Gemini.
type LLMService struct {
	models models
	model  string
}

// NewLLMService creates a Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &LLMService{models: client.Models, model: model}, nil
}

// Chat sends the conversation and returns the first candidate's text.
// System messages become the system instruction. A JSON schema switches
// the response MIME type to application/json.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case driven.RoleSystem:
			system = append(system, m.Content)
		case driven.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleUser),
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	if len(contents) == 0 {
		return "", errors.New("gemini: no user message")
	}

	temperature := float32(opts.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temperature}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSONSchema != nil {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := s.models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", wrapError("generate content", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
		if b.Len() > 0 {
			break
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("gemini: empty response")
	}
	return out, nil
}

// ModelName returns the model in use.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the model exists and the key is accepted.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return wrapError("ping failed", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

// wrapError maps quota errors to domain.ErrRateLimited.
func wrapError(op string, err error) error {
	if code, ok := apiErrorCode(err); ok && code == http.StatusTooManyRequests {
		return fmt.Errorf("gemini: %s: %w: %v", op, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("gemini: %s: %w", op, err)
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
