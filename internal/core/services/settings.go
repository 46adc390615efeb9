package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyChunkSize         = "extraction.chunk_size"
	keyChunkOverlap      = "extraction.chunk_overlap"
	keyMaxAttempts       = "extraction.max_attempts"
	keyBackoffMS         = "extraction.backoff_ms"
	keyTemperature       = "extraction.temperature"
	keyConcurrency       = "extraction.concurrency"
	keyMeetingThreshold  = "extraction.meeting_threshold"
	keyRequestsPerSecond = "ratelimit.requests_per_second"
	keyBurst             = "ratelimit.burst"
	keyCalendarCreds     = "calendar.credentials_file"
	keyCalendarID        = "calendar.calendar_id"
	keyStorageDriver     = "storage.driver"
	keyStoragePath       = "storage.path"
	keyPipelineProcs     = "pipeline.processors"
)

// Environment variables that override stored API keys.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvLLMAPIKey       = "RESUMEX_LLM_API_KEY"
	EnvEmbeddingAPIKey = "RESUMEX_EMBEDDING_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Extraction: domain.ExtractionSettings{
			ChunkSize:        s.getInt(keyChunkSize, defaults.Extraction.ChunkSize),
			ChunkOverlap:     s.getInt(keyChunkOverlap, defaults.Extraction.ChunkOverlap),
			MaxAttempts:      s.getInt(keyMaxAttempts, defaults.Extraction.MaxAttempts),
			Backoff:          time.Duration(s.configStore.GetInt(keyBackoffMS)) * time.Millisecond,
			Temperature:      s.getFloat(keyTemperature, defaults.Extraction.Temperature),
			Concurrency:      s.getInt(keyConcurrency, defaults.Extraction.Concurrency),
			MeetingThreshold: s.getFloat(keyMeetingThreshold, defaults.Extraction.MeetingThreshold),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, defaults.RateLimit.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, defaults.RateLimit.Burst),
		},
		Calendar: domain.CalendarSettings{
			CredentialsFile: s.configStore.GetString(keyCalendarCreds),
			CalendarID:      s.getString(keyCalendarID, defaults.Calendar.CalendarID),
		},
		Storage: domain.StorageSettings{
			Driver: s.getStorageDriver(defaults.Storage.Driver),
			Path:   s.configStore.GetString(keyStoragePath),
		},
	}

	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultOllamaURL
	}
	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = domain.DefaultOllamaURL
	}

	if key := s.getenv(EnvLLMAPIKey); key != "" {
		settings.LLM.APIKey = key
	}
	if key := s.getenv(EnvEmbeddingAPIKey); key != "" {
		settings.Embedding.APIKey = key
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{key: keyEmbedProvider, value: settings.Embedding.Provider.String()},
		{key: keyEmbedModel, value: settings.Embedding.Model},
		{key: keyEmbedBaseURL, value: settings.Embedding.BaseURL},
		{key: keyEmbedAPIKey, value: settings.Embedding.APIKey, skip: settings.Embedding.APIKey == ""},
		{key: keyLLMProvider, value: settings.LLM.Provider.String()},
		{key: keyLLMModel, value: settings.LLM.Model},
		{key: keyLLMBaseURL, value: settings.LLM.BaseURL},
		{key: keyLLMAPIKey, value: settings.LLM.APIKey, skip: settings.LLM.APIKey == ""},
		{key: keyChunkSize, value: settings.Extraction.ChunkSize},
		{key: keyChunkOverlap, value: settings.Extraction.ChunkOverlap},
		{key: keyMaxAttempts, value: settings.Extraction.MaxAttempts},
		{key: keyBackoffMS, value: int(settings.Extraction.Backoff / time.Millisecond)},
		{key: keyTemperature, value: settings.Extraction.Temperature},
		{key: keyConcurrency, value: settings.Extraction.Concurrency},
		{key: keyMeetingThreshold, value: settings.Extraction.MeetingThreshold},
		{key: keyRequestsPerSecond, value: settings.RateLimit.RequestsPerSecond},
		{key: keyBurst, value: settings.RateLimit.Burst},
		{key: keyCalendarCreds, value: settings.Calendar.CredentialsFile},
		{key: keyCalendarID, value: settings.Calendar.CalendarID},
		{key: keyStorageDriver, value: string(settings.Storage.Driver)},
		{key: keyStoragePath, value: settings.Storage.Path},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = domain.DefaultOllamaURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = domain.DefaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetExtraction updates pipeline tuning.
func (s *SettingsService) SetExtraction(extraction domain.ExtractionSettings) error {
	if err := validateExtraction(extraction); err != nil {
		return err
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Extraction = extraction
	return s.Save(settings)
}

func validateExtraction(e domain.ExtractionSettings) error {
	switch {
	case e.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	case e.ChunkOverlap < 0 || e.ChunkOverlap >= e.ChunkSize:
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", domain.ErrInvalidInput)
	case e.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be at least 1", domain.ErrInvalidInput)
	case e.Backoff < 0:
		return fmt.Errorf("%w: backoff must not be negative", domain.ErrInvalidInput)
	case e.Temperature < 0 || e.Temperature > 2:
		return fmt.Errorf("%w: temperature must be in [0, 2]", domain.ErrInvalidInput)
	case e.Concurrency < 1:
		return fmt.Errorf("%w: concurrency must be at least 1", domain.ErrInvalidInput)
	case e.MeetingThreshold <= 0 || e.MeetingThreshold > 1:
		return fmt.Errorf("%w: meeting threshold must be in (0, 1]", domain.ErrInvalidInput)
	}
	return nil
}

// Validate checks that current settings are usable for extraction.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider)
	}
	if settings.Embedding.Provider != "" && !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if !settings.Storage.Driver.IsValid() {
		return fmt.Errorf("invalid storage driver: %s", settings.Storage.Driver)
	}
	return validateExtraction(settings.Extraction)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the cleaner and chunker pipeline configuration,
// with chunk sizing taken from the extraction settings.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()
	if processors := s.configStore.GetStringSlice(keyPipelineProcs); len(processors) > 0 {
		cfg.Processors = processors
	}

	settings, err := s.Get()
	if err != nil {
		return cfg
	}
	cfg.ProcessorConfigs["chunker"] = map[string]any{
		"chunk_size": settings.Extraction.ChunkSize,
		"overlap":    settings.Extraction.ChunkOverlap,
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	driver := domain.StorageDriver(s.configStore.GetString(keyStorageDriver))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
