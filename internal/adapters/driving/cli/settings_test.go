package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}
	ts.settings.settings.Calendar = domain.CalendarSettings{CredentialsFile: "/etc/creds.json", CalendarID: "team"}

	out, err := executeCommand(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "OpenAI (cloud)")
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Chunk size: 1100")
	assert.Contains(t, out, "Calendar ID: team")
	assert.Contains(t, out, "Driver: sqlite")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_ValidationWarning(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.validateErr = errors.New(`LLM provider "openai" is not configured`)

	out, err := executeCommand(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Publishing: disabled")
	assert.Contains(t, out, "Warning: LLM provider")
}

func TestSettingsLLM_Interactive(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "2\n\nsk-test-key-123456\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, ts.settings.settings.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", ts.settings.settings.LLM.Model)
	assert.Equal(t, "sk-test-key-123456", ts.settings.settings.LLM.APIKey)
	assert.Contains(t, out, "LLM provider configured")
}

func TestSettingsEmbedding_RequiresAPIKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "2\n\n\n", "settings", "embedding")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsExtraction(t *testing.T) {
	t.Run("only changed flags are applied", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		_, err := executeCommand(t, "", "settings", "extraction", "--chunk-size", "1500", "--backoff", "2s")

		require.NoError(t, err)
		e := ts.settings.settings.Extraction
		assert.Equal(t, 1500, e.ChunkSize)
		assert.Equal(t, 250, e.ChunkOverlap)
		assert.Equal(t, 2*time.Second, e.Backoff)
		assert.Equal(t, 2, e.MaxAttempts)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()

		_, err := executeCommand(t, "", "settings", "extraction", "--chunk-size", "100", "--overlap", "200")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 1100, ts.settings.settings.Extraction.ChunkSize)
	})
}

func TestSettingsCalendar(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	creds := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(creds, []byte(`{}`), 0o600))

	out, err := executeCommand(t, "", "settings", "calendar", "--credentials", creds, "--calendar-id", "hiring")
	require.NoError(t, err)
	assert.Equal(t, creds, ts.settings.settings.Calendar.CredentialsFile)
	assert.Equal(t, "hiring", ts.settings.settings.Calendar.CalendarID)
	assert.Contains(t, out, `calendar "hiring"`)

	_, err = executeCommand(t, "", "settings", "calendar", "--credentials", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	out, err = executeCommand(t, "", "settings", "calendar", "--credentials", "")
	require.NoError(t, err)
	assert.Empty(t, ts.settings.settings.Calendar.CredentialsFile)
	assert.Contains(t, out, "Calendar publishing disabled.")
}

func TestSettingsStorage(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "", "settings", "storage", "--driver", "memory")
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, ts.settings.settings.Storage.Driver)

	_, err = executeCommand(t, "", "settings", "storage", "--driver", "postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage driver")
}

func TestSettings_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := executeCommand(t, "", "settings", "show")

	assert.EqualError(t, err, "settings service not configured")
}
