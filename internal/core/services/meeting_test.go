package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/adapters/driven/validator"
	"github.com/custodia-labs/resumex/internal/core/domain"
)

func meetingReply(isEvent bool, confidence float64, datetime string) string {
	return fmt.Sprintf(`{
		"meeting_description": "Interview with Jane Roe",
		"is_calendar_event": %t,
		"confidence_score": %g,
		"title": "Interview: Jane Roe",
		"datetime": %q,
		"date": "Wednesday, 2025-03-26",
		"time": "14:00:00",
		"duration_of_meeting": 1.5,
		"participants": ["jane@example.com", "hiring@acme.test"],
		"confirmation_message": "Interview scheduled for Wednesday at 14:00.",
		"calendar_link": null,
		"notes": null,
		"location": "Room 4"
	}`, isEvent, confidence, datetime)
}

func newTestMeetingService(reply string, store *mockMeetingStore, opts ...MeetingOption) (*MeetingService, *mockLLMService) {
	llm := sequenceLLM(reply)
	opts = append([]MeetingOption{WithMeetingClock(func() time.Time { return fixedTime })}, opts...)
	var s *MeetingService
	if store == nil {
		s = NewMeetingService(NewExtractor(llm, nil), nil, opts...)
	} else {
		s = NewMeetingService(NewExtractor(llm, nil), store, opts...)
	}
	return s, llm
}

func TestMeetingService_Extract_ConfidenceGate(t *testing.T) {
	tests := []struct {
		name       string
		isEvent    bool
		confidence float64
		accepted   bool
	}{
		{"above threshold", true, 0.95, true},
		{"exactly threshold", true, 0.6, true},
		{"just below threshold", true, 0.59, false},
		{"not an event", false, 0.99, false},
		{"zero confidence", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestMeetingService(meetingReply(tt.isEvent, tt.confidence, "2025-03-26T14:00:00"), nil)

			m, err := s.Extract(context.Background(), "Can we meet Wednesday at 2pm?")
			require.NoError(t, err)
			if tt.accepted {
				require.NotNil(t, m)
				assert.Equal(t, "Interview: Jane Roe", m.Title)
				require.NotNil(t, m.Location)
				assert.Equal(t, "Room 4", *m.Location)
				assert.Nil(t, m.Notes)
			} else {
				assert.Nil(t, m)
			}
		})
	}
}

func TestMeetingService_Extract_CustomThreshold(t *testing.T) {
	s, _ := newTestMeetingService(meetingReply(true, 0.7, "2025-03-26T14:00:00"), nil,
		WithMeetingThreshold(0.8))

	m, err := s.Extract(context.Background(), "Meet Wednesday?")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMeetingService_Extract_InvalidThresholdIgnored(t *testing.T) {
	s, _ := newTestMeetingService(meetingReply(true, 0.65, "2025-03-26T14:00:00"), nil,
		WithMeetingThreshold(1.5))

	m, err := s.Extract(context.Background(), "Meet Wednesday?")
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestMeetingService_Extract_BlankText(t *testing.T) {
	s, llm := newTestMeetingService(meetingReply(true, 1, "2025-03-26T14:00:00"), nil)

	m, err := s.Extract(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 0, llm.callCount())
}

func TestMeetingService_Extract_LLMFailure(t *testing.T) {
	s, _ := newTestMeetingService("not json at all", nil)

	_, err := s.Extract(context.Background(), "Meet Wednesday?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestMeetingService_Extract_NoExtractor(t *testing.T) {
	s := NewMeetingService(nil, nil)

	_, err := s.Extract(context.Background(), "Meet Wednesday?")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestMeetingService_Schedule(t *testing.T) {
	store := &mockMeetingStore{}
	s, _ := newTestMeetingService(meetingReply(true, 0.9, "2025-03-26T14:00:00"), store)

	stored, err := s.Schedule(context.Background(), "Interview Jane on Wednesday 2pm for 90 minutes")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, fixedTime, stored.CreatedAt)
	assert.Equal(t, time.Date(2025, 3, 26, 14, 0, 0, 0, time.UTC), stored.Meeting.Start)
	assert.Equal(t, time.Date(2025, 3, 26, 15, 30, 0, 0, time.UTC), stored.Meeting.End)
	assert.Equal(t, "Interview: Jane Roe", stored.Meeting.Summary)
	assert.Equal(t, "Participants: jane@example.com, hiring@acme.test", stored.Meeting.EventDetail)
	assert.Empty(t, stored.EventLink)

	require.Len(t, store.saved, 1)
	assert.Equal(t, stored.ID, store.saved[0].ID)
}

func TestMeetingService_Schedule_Publishes(t *testing.T) {
	store := &mockMeetingStore{}
	pub := &mockPublisher{link: "https://calendar.google.com/event?eid=abc"}
	s, _ := newTestMeetingService(meetingReply(true, 0.9, "2025-03-26T14:00:00Z"), store, WithPublisher(pub))

	stored, err := s.Schedule(context.Background(), "Interview Jane on Wednesday 2pm")
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "Interview: Jane Roe", pub.published[0].Summary)
	assert.Equal(t, pub.link, stored.EventLink)
	require.Len(t, store.saved, 1)
	assert.Equal(t, pub.link, store.saved[0].EventLink)
}

func TestMeetingService_Schedule_PublishFailureNotStored(t *testing.T) {
	store := &mockMeetingStore{}
	pub := &mockPublisher{err: errors.New("403 forbidden")}
	s, _ := newTestMeetingService(meetingReply(true, 0.9, "2025-03-26T14:00:00"), store, WithPublisher(pub))

	_, err := s.Schedule(context.Background(), "Interview Jane on Wednesday 2pm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish meeting")
	assert.Empty(t, store.saved)
}

func TestMeetingService_Schedule_NoMeeting(t *testing.T) {
	store := &mockMeetingStore{}
	s, _ := newTestMeetingService(meetingReply(false, 0.2, "2025-03-26T14:00:00"), store)

	_, err := s.Schedule(context.Background(), "Thanks for the update.")
	assert.ErrorIs(t, err, domain.ErrNoMeeting)
	assert.Empty(t, store.saved)
}

func TestMeetingService_Schedule_BadDateTime(t *testing.T) {
	s, _ := newTestMeetingService(meetingReply(true, 0.9, "next Wednesday"), nil)

	_, err := s.Schedule(context.Background(), "Interview next Wednesday")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMeetingService_Schedule_StoreFailure(t *testing.T) {
	store := &mockMeetingStore{saveErr: errors.New("database is locked")}
	s, _ := newTestMeetingService(meetingReply(true, 0.9, "2025-03-26T14:00:00"), store)

	_, err := s.Schedule(context.Background(), "Interview Jane on Wednesday 2pm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save meeting")
}

func TestMeetingService_Schedule_WithoutStore(t *testing.T) {
	s, _ := newTestMeetingService(meetingReply(true, 0.9, "2025-03-26T14:00:00"), nil)

	stored, err := s.Schedule(context.Background(), "Interview Jane on Wednesday 2pm")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func boundedMeetingReply(confidence, duration float64) string {
	return fmt.Sprintf(`{
		"meeting_description": "Budget review",
		"is_calendar_event": true,
		"confidence_score": %g,
		"title": "Budget review",
		"datetime": "2025-03-27T15:00:00",
		"date": "Thursday, 2025-03-27",
		"time": "15:00:00",
		"duration_of_meeting": %g,
		"participants": ["Alice", "Bob"],
		"confirmation_message": "Booked."
	}`, confidence, duration)
}

func TestMeetingService_Extract_ValidatorRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		duration   float64
	}{
		{"confidence above one", 42, 1},
		{"negative duration", 0.9, -3},
		{"both", 42, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := sequenceLLM(boundedMeetingReply(tt.confidence, tt.duration))
			s := NewMeetingService(NewExtractor(llm, validator.New()), nil)

			m, err := s.Extract(context.Background(), "Budget review tomorrow 3pm")
			assert.Nil(t, m)
			assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
		})
	}
}

func TestMeetingService_Extract_OutOfRangeConfidenceNotAccepted(t *testing.T) {
	s, _ := newTestMeetingService(boundedMeetingReply(42, 1), nil)

	m, err := s.Extract(context.Background(), "Budget review tomorrow 3pm")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMeetingService_Schedule_NegativeDurationRejected(t *testing.T) {
	store := &mockMeetingStore{}
	pub := &mockPublisher{link: "https://calendar.example/event/1"}
	s, _ := newTestMeetingService(boundedMeetingReply(0.9, -3), store, WithPublisher(pub))

	stored, err := s.Schedule(context.Background(), "Budget review tomorrow 3pm")
	assert.Nil(t, stored)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, pub.published)
	assert.Empty(t, store.saved)
}

func TestMeetingService_Extract_BudgetMeeting(t *testing.T) {
	const text = "Let's meet tomorrow 3pm with Alice and Bob for 1 hour to discuss budget"

	for _, withValidator := range []bool{false, true} {
		t.Run(fmt.Sprintf("validator=%t", withValidator), func(t *testing.T) {
			llm := sequenceLLM(boundedMeetingReply(0.9, 1))
			e := NewExtractor(llm, nil)
			if withValidator {
				e = NewExtractor(llm, validator.New())
			}
			s := NewMeetingService(e, nil)

			m, err := s.Extract(context.Background(), text)
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.True(t, m.IsCalendarEvent)
			assert.InDelta(t, 1.0, m.DurationHours, 1e-9)
			assert.Contains(t, m.Participants, "Alice")
			assert.Contains(t, m.Participants, "Bob")

			require.Len(t, llm.messages, 1)
			assert.Equal(t, text, llm.messages[0][1].Content)
		})
	}
}
