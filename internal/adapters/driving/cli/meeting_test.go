package cli

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

func TestMeetingCmd_Extract(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.meetings.candidate = &domain.MeetingCandidate{
		IsCalendarEvent:     true,
		ConfidenceScore:     0.92,
		Title:               "Interview with Jane",
		DateTime:            "2025-03-14T15:00:00",
		DurationHours:       1,
		Participants:        []string{"jane@example.com"},
		ConfirmationMessage: "Interview booked for Friday at 3pm.",
	}

	out, err := executeCommand(t, "", "meeting", "Interview", "with", "jane@example.com", "Friday", "3pm")

	require.NoError(t, err)
	assert.Equal(t, "Interview with jane@example.com Friday 3pm", ts.meetings.text)
	assert.False(t, ts.meetings.scheduled)
	assert.Contains(t, out, "Interview with Jane")
	assert.Contains(t, out, "When: 2025-03-14T15:00:00")
	assert.Contains(t, out, "Confidence: 0.92")
	assert.Contains(t, out, "Interview booked")
}

func TestMeetingCmd_ReadsStdin(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "lunch on Monday?\n", "meeting")

	require.NoError(t, err)
	assert.Equal(t, "lunch on Monday?\n", ts.meetings.text)
	assert.Contains(t, out, "No meeting request found.")
}

func TestMeetingCmd_EmptyText(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "   \n", "meeting")

	assert.EqualError(t, err, "meeting text is required")
}

func TestMeetingCmd_Schedule(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	start := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	notes := "Bring portfolio"
	ts.meetings.stored = &domain.StoredMeeting{
		ID: "m-1",
		Meeting: domain.ScheduledMeeting{
			MeetingCandidate: domain.MeetingCandidate{
				Participants: []string{"jane@example.com", "Bob"},
				Notes:        &notes,
			},
			Start:   start,
			End:     start.Add(90 * time.Minute),
			Summary: "Interview",
		},
		EventLink: "https://calendar.google.com/event?eid=abc",
	}

	out, err := executeCommand(t, "", "meeting", "--schedule", "interview Friday 3pm")

	require.NoError(t, err)
	assert.True(t, ts.meetings.scheduled)
	assert.Contains(t, out, "ID: m-1")
	assert.Contains(t, out, "Start: 2025-03-14T15:00:00")
	assert.Contains(t, out, "End: 2025-03-14T16:30:00")
	assert.Contains(t, out, "Participants: jane@example.com, Bob")
	assert.Contains(t, out, "Notes: Bring portfolio")
	assert.Contains(t, out, "Event: https://calendar.google.com/event?eid=abc")
}

func TestMeetingCmd_ScheduleNoMeeting(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.meetings.err = domain.ErrNoMeeting

	out, err := executeCommand(t, "", "meeting", "--schedule", "--json", "thanks!")

	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestMeetingCmd_ScheduleJSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.meetings.stored = &domain.StoredMeeting{ID: "m-2", Meeting: domain.ScheduledMeeting{Summary: "Sync"}}

	out, err := executeCommand(t, "", "meeting", "--schedule", "--json", "sync at noon")

	require.NoError(t, err)
	var m domain.StoredMeeting
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "m-2", m.ID)
	assert.Equal(t, "Sync", m.Meeting.Summary)
}

func TestMeetingCmd_PublishFailure(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.meetings.err = errors.New("publish meeting: google: forbidden")

	_, err := executeCommand(t, "", "meeting", "--schedule", "interview tomorrow")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}
