package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/resumex/internal/connectors/google"
	"github.com/custodia-labs/resumex/internal/core/domain"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc) *Publisher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewPublisher(context.Background(), Config{
		HTTPClient: srv.Client(),
		Endpoint:   srv.URL + "/",
		TimeZone:   "Europe/London",
	})
	require.NoError(t, err)
	return p
}

func testMeeting() *domain.ScheduledMeeting {
	notes := "Bring portfolio"
	room := "Room 4"
	start := time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC)
	return &domain.ScheduledMeeting{
		MeetingCandidate: domain.MeetingCandidate{
			Title:        "Interview",
			Participants: []string{"ana@example.com", "Raj", " lee@example.org "},
			Notes:        &notes,
			Location:     &room,
		},
		Start:       start,
		End:         start.Add(90 * time.Minute),
		Summary:     "Interview",
		EventDetail: "Participants: ana@example.com, Raj, lee@example.org",
	}
}

func TestPublisher_Publish(t *testing.T) {
	var got calendar.Event
	var path, sendUpdates string
	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		sendUpdates = r.URL.Query().Get("sendUpdates")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ev1","htmlLink":"https://calendar.google.com/event?eid=ev1"}`))
	})

	link, err := p.Publish(context.Background(), testMeeting())
	require.NoError(t, err)

	assert.Equal(t, "https://calendar.google.com/event?eid=ev1", link)
	assert.Equal(t, "/calendars/primary/events", path)
	assert.Equal(t, "all", sendUpdates)
	assert.Equal(t, "Interview", got.Summary)
	assert.Equal(t, "Room 4", got.Location)
	assert.Equal(t, "Participants: ana@example.com, Raj, lee@example.org\n\nNotes: Bring portfolio", got.Description)
	require.NotNil(t, got.Start)
	assert.Equal(t, "2026-05-04T14:30:00", got.Start.DateTime)
	assert.Equal(t, "Europe/London", got.Start.TimeZone)
	require.NotNil(t, got.End)
	assert.Equal(t, "2026-05-04T16:00:00", got.End.DateTime)

	require.Len(t, got.Attendees, 2)
	assert.Equal(t, "ana@example.com", got.Attendees[0].Email)
	assert.Equal(t, "lee@example.org", got.Attendees[1].Email)
}

func TestPublisher_PublishErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorised",
			status: http.StatusUnauthorized,
			body:   `{"error":{"code":401,"message":"bad token"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, google.ErrUnauthorized)
			},
		},
		{
			name:   "calendar not found",
			status: http.StatusNotFound,
			body:   `{"error":{"code":404,"message":"no calendar"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrNotFound)
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"message":"slow down"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrRateLimited)
			},
		},
		{
			name:   "missing link",
			status: http.StatusOK,
			body:   `{"id":"ev1"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "without a link")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Publish(context.Background(), testMeeting())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestPublisher_RateLimitBacksOff(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"slow down"}}`))
	})

	_, err := p.Publish(context.Background(), testMeeting())
	require.Error(t, err)
	assert.False(t, p.limiter.Allow())
}

func TestPublisher_NilMeeting(t *testing.T) {
	p := newTestPublisher(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := p.Publish(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewPublisher_Config(t *testing.T) {
	_, err := NewPublisher(context.Background(), Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewPublisher(context.Background(), Config{CredentialsFile: "/does/not/exist.json"})
	assert.Error(t, err)

	p, err := NewPublisher(context.Background(), Config{HTTPClient: http.DefaultClient})
	require.NoError(t, err)
	assert.Equal(t, DefaultCalendarID, p.calendarID)
	assert.Equal(t, DefaultTimeZone, p.timeZone)
}

func TestEventDescription(t *testing.T) {
	blank := "  "
	m := &domain.ScheduledMeeting{EventDetail: "Participants: a"}
	assert.Equal(t, "Participants: a", eventDescription(m))

	m.Notes = &blank
	assert.Equal(t, "Participants: a", eventDescription(m))
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ana@example.com", true},
		{" ana@example.com ", true},
		{"Ana", false},
		{"@example.com", false},
		{"ana@", false},
		{"Ana Smith <ana@example.com>", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isEmail(tt.in))
		})
	}
}
