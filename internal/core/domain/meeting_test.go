package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingCandidate_Accepted(t *testing.T) {
	tests := []struct {
		name       string
		event      bool
		confidence float64
		expected   bool
	}{
		{"below threshold", true, 0.59, false},
		{"at threshold", true, 0.6, true},
		{"above threshold", true, 0.95, true},
		{"not an event", false, 0.99, false},
		{"full confidence", true, 1, true},
		{"score above one", true, 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MeetingCandidate{IsCalendarEvent: tt.event, ConfidenceScore: tt.confidence}
			assert.Equal(t, tt.expected, m.Accepted(DefaultMeetingThreshold))
		})
	}

	var nilCandidate *MeetingCandidate
	assert.False(t, nilCandidate.Accepted(0))
}

func TestMeetingCandidate_Schedule(t *testing.T) {
	m := &MeetingCandidate{
		Title:         "Sync",
		DateTime:      "2025-03-26T14:00:00Z",
		DurationHours: 1.5,
		Participants:  []string{"A", "B"},
	}

	s, err := m.Schedule()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 26, 14, 0, 0, 0, time.UTC), s.Start)
	assert.Equal(t, time.Date(2025, 3, 26, 15, 30, 0, 0, time.UTC), s.End)
	assert.Equal(t, "Participants: A, B", s.EventDetail)
	assert.Equal(t, "Sync", s.Summary)
}

func TestMeetingCandidate_ScheduleBadDate(t *testing.T) {
	m := &MeetingCandidate{DateTime: "next tuesday"}
	_, err := m.Schedule()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestMeetingCandidate_ScheduleDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		wantErr  bool
	}{
		{"zero", 0, false},
		{"half hour", 0.5, false},
		{"negative", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MeetingCandidate{DateTime: "2025-03-26T14:00:00", DurationHours: tt.duration}
			s, err := m.Schedule()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.False(t, s.End.Before(s.Start))
		})
	}
}
