package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

func TestResumesList(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts.records.resumes = []domain.StoredResume{
		storedResume("res-2", "Jane Doe", now),
		{ID: "res-1", Filename: "blank.pdf", UploadedAt: now.Add(-time.Hour)},
	}

	out, err := executeCommand(t, "", "resumes", "list", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.records.limit)
	lines := splitLines(out)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "res-2")
	assert.Contains(t, lines[0], "Jane Doe")
	assert.Contains(t, lines[0], "[Data Science]")
	assert.Contains(t, lines[1], "(unknown)")
	assert.Contains(t, lines[1], "blank.pdf")
}

func TestResumesList_DefaultLimitAndEmpty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "", "resumes", "list")

	require.NoError(t, err)
	assert.Equal(t, 20, ts.records.limit)
	assert.Contains(t, out, "No résumés stored.")
}

func TestResumesGet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.records.resumes = []domain.StoredResume{storedResume("res-1", "Jane Doe", time.Now())}

	out, err := executeCommand(t, "", "resumes", "get", "res-1")
	require.NoError(t, err)
	var r domain.StoredResume
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "Jane Doe", r.CandidateName())

	_, err = executeCommand(t, "", "resumes", "get", "missing")
	assert.EqualError(t, err, "résumé missing not found")
}

func TestResumesLast(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "", "resumes", "last")
	assert.EqualError(t, err, "no résumés stored")

	ts.records.resumes = []domain.StoredResume{storedResume("res-9", "Ada", time.Now())}
	out, err := executeCommand(t, "", "resumes", "last")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "res-9"`)
}

func TestResumesDelete(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "", "resumes", "delete", "res-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"res-1"}, ts.records.deleted)
	assert.Contains(t, out, "Deleted res-1")
}

func TestMeetingsListAndGet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	start := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	ts.records.meetings = []domain.StoredMeeting{{
		ID: "m-1",
		Meeting: domain.ScheduledMeeting{
			Start:   start,
			End:     start.Add(time.Hour),
			Summary: "Interview",
		},
		EventLink: "https://calendar.google.com/event?eid=1",
	}}

	out, err := executeCommand(t, "", "meetings", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "m-1  2025-03-14 15:00  Interview")
	assert.Contains(t, out, "eid=1")

	out, err = executeCommand(t, "", "meetings", "get", "m-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Interview")
	assert.Contains(t, out, "End: 2025-03-14T16:00:00")

	out, err = executeCommand(t, "", "meetings", "get", "--json", "m-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"event_link": "https://calendar.google.com/event?eid=1"`)

	_, err = executeCommand(t, "", "meetings", "get", "m-404")
	assert.EqualError(t, err, "meeting m-404 not found")
}

func TestMeetingsList_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "", "meetings", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No meetings scheduled.")
}

func TestRecords_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	recordService = nil

	for _, args := range [][]string{
		{"resumes", "list"},
		{"resumes", "get", "x"},
		{"resumes", "last"},
		{"resumes", "delete", "x"},
		{"meetings", "list"},
		{"meetings", "get", "x"},
	} {
		_, err := executeCommand(t, "", args...)
		assert.EqualError(t, err, "record service not configured", "args %v", args)
	}
}

func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(strings.TrimSpace(s), "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
