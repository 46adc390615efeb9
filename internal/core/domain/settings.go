package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ExtractionSettings tunes the résumé pipeline.
type ExtractionSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks in characters.
	ChunkOverlap int

	// MaxAttempts bounds model calls per schema.
	MaxAttempts int

	// Backoff is the base wait between attempts. Zero retries immediately.
	Backoff time.Duration

	// Temperature is passed to the LLM for extraction calls.
	Temperature float64

	// Concurrency is the number of sections extracted in parallel.
	// One means sequential.
	Concurrency int

	// MeetingThreshold is the minimum confidence to accept a meeting.
	MeetingThreshold float64
}

// RateLimitSettings throttles calls to AI providers.
type RateLimitSettings struct {
	// RequestsPerSecond is the sustained rate. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int
}

// CalendarSettings configures publishing of scheduled meetings.
type CalendarSettings struct {
	// CredentialsFile is a Google service account or OAuth token JSON file.
	CredentialsFile string

	// CalendarID is the target calendar. Defaults to "primary".
	CalendarID string
}

// IsConfigured returns true if meetings can be published.
func (c CalendarSettings) IsConfigured() bool {
	return c.CredentialsFile != ""
}

// StorageDriver selects the record store implementation.
type StorageDriver string

// Available storage drivers.
const (
	StorageSQLite StorageDriver = "sqlite"
	StorageMemory StorageDriver = "memory"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	return d == StorageSQLite || d == StorageMemory
}

// StorageSettings configures the record store.
type StorageSettings struct {
	Driver StorageDriver

	// Path is the database file. Empty means the default data directory.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Extraction holds pipeline tuning.
	Extraction ExtractionSettings

	// RateLimit throttles provider calls.
	RateLimit RateLimitSettings

	// Calendar configures meeting publishing.
	Calendar CalendarSettings

	// Storage configures persistence.
	Storage StorageSettings
}

// Default provider endpoints and models.
const (
	DefaultOllamaURL      = "http://localhost:11434"
	DefaultLLMModel       = "llama3.2"
	DefaultEmbeddingModel = "nomic-embed-text"
)

// DefaultExtractionSettings returns the pipeline defaults.
func DefaultExtractionSettings() ExtractionSettings {
	return ExtractionSettings{
		ChunkSize:        1100,
		ChunkOverlap:     250,
		MaxAttempts:      2,
		Temperature:      0.1,
		Concurrency:      1,
		MeetingThreshold: DefaultMeetingThreshold,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// Both AI services default to a local Ollama instance.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModel,
			BaseURL:  DefaultOllamaURL,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModel,
			BaseURL:  DefaultOllamaURL,
		},
		Extraction: DefaultExtractionSettings(),
		RateLimit: RateLimitSettings{
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Calendar: CalendarSettings{
			CalendarID: "primary",
		},
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: DefaultEmbeddingModel,
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    DefaultLLMModel,
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default cleaner then chunker pipeline.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"cleaner", "chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": 1100,
				"overlap":    250,
			},
		},
	}
}
