package cli

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

func parsedFixture() *driving.ParsedResume {
	rec := domain.NewAggregatedRecord()
	rec.Sections[domain.SchemaPersonalDetails] = domain.Succeeded(domain.SchemaPersonalDetails,
		map[string]any{"Full_Name": "Jane Doe"})
	rec.Sections[domain.SchemaSkillsDetails] = domain.Failed(domain.SchemaSkillsDetails,
		errors.New("invalid JSON"))
	rec.Metadata = domain.RecordMetadata{
		ExtractedAt:     time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		Model:           "llama3.2",
		ChunksProcessed: 4,
		Version:         domain.RecordVersion,
	}
	stored := storedResume("res-1", "Jane Doe", time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	return &driving.ParsedResume{Record: rec, Stored: &stored}
}

func TestParseCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "", "parse")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestParseCmd_Summary(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.resumes.parsed = parsedFixture()

	out, err := executeCommand(t, "", "parse", "jane.pdf")

	require.NoError(t, err)
	assert.Equal(t, "jane.pdf", ts.resumes.path)
	assert.False(t, ts.resumes.opts.NoSave)
	assert.Contains(t, out, "res-1")
	assert.Contains(t, out, "Candidate: Jane Doe")
	assert.Contains(t, out, "Category: Data Science")
	assert.Contains(t, out, "✓ Personal_Details")
	assert.Contains(t, out, "✗ Skills_Details")
	assert.Contains(t, out, "model llama3.2, 4 chunks")
}

func TestParseCmd_NoSaveJSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	parsed := parsedFixture()
	parsed.Stored = nil
	ts.resumes.parsed = parsed

	out, err := executeCommand(t, "", "parse", "--no-save", "--json", "jane.txt")

	require.NoError(t, err)
	assert.True(t, ts.resumes.opts.NoSave)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, map[string]any{"Full_Name": "Jane Doe"}, m["Personal_Details"])
	assert.Contains(t, m["Skills_Details"], "Error extracting Skills_Details")
	assert.Contains(t, m, "metadata")
}

func TestParseCmd_StoredJSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.resumes.parsed = parsedFixture()

	out, err := executeCommand(t, "", "parse", "--json", "jane.pdf")

	require.NoError(t, err)
	var r domain.StoredResume
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "res-1", r.ID)
	assert.Equal(t, "res-1.pdf", r.Filename)
}

func TestParseCmd_Errors(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.resumes.err = domain.ErrUnsupportedType

		_, err := executeCommand(t, "", "parse", "photo.png")

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("AI unavailable", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()
		resumeService = nil
		aiUnavailable = errors.New("ollama not reachable")

		_, err := executeCommand(t, "", "parse", "cv.pdf")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "resume service not configured")
		assert.Contains(t, err.Error(), "ollama not reachable")
	})
}
