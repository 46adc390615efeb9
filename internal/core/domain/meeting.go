package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMeetingThreshold is the minimum confidence for a meeting to be accepted.
const DefaultMeetingThreshold = 0.6

// MeetingDateTimeLayout is the layout of MeetingCandidate.DateTime.
const MeetingDateTimeLayout = "2006-01-02T15:04:05"

// MeetingCandidate is a structured meeting request extracted from free text.
type MeetingCandidate struct {
	Description         string   `json:"meeting_description"`
	IsCalendarEvent     bool     `json:"is_calendar_event"`
	ConfidenceScore     float64  `json:"confidence_score"`
	Title               string   `json:"title"`
	DateTime            string   `json:"datetime"`
	Date                string   `json:"date"`
	Time                string   `json:"time"`
	DurationHours       float64  `json:"duration_of_meeting"`
	Participants        []string `json:"participants"`
	ConfirmationMessage string   `json:"confirmation_message"`
	CalendarLink        *string  `json:"calendar_link"`
	Notes               *string  `json:"notes"`
	Location            *string  `json:"location"`
}

// Accepted reports whether the candidate is a calendar event with at least
// the given confidence. Scores above one are out of range and never accepted.
func (m *MeetingCandidate) Accepted(threshold float64) bool {
	return m != nil && m.IsCalendarEvent &&
		m.ConfidenceScore >= threshold && m.ConfidenceScore <= 1
}

// Start parses DateTime. A trailing "Z" is ignored and the time is read as UTC.
func (m *MeetingCandidate) Start() (time.Time, error) {
	s := strings.TrimSuffix(strings.TrimSpace(m.DateTime), "Z")
	t, err := time.Parse(MeetingDateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: meeting datetime %q: %v", ErrInvalidInput, m.DateTime, err)
	}
	return t, nil
}

// ScheduledMeeting is an accepted candidate with its derived calendar fields.
type ScheduledMeeting struct {
	MeetingCandidate

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Summary     string    `json:"summary"`
	EventDetail string    `json:"event_description"`
}

// Schedule derives start, end and description from the candidate.
// A negative duration is rejected so that End never precedes Start.
func (m *MeetingCandidate) Schedule() (*ScheduledMeeting, error) {
	start, err := m.Start()
	if err != nil {
		return nil, err
	}
	if m.DurationHours < 0 {
		return nil, fmt.Errorf("%w: negative meeting duration %g", ErrInvalidInput, m.DurationHours)
	}
	dur := time.Duration(m.DurationHours * float64(time.Hour))
	return &ScheduledMeeting{
		MeetingCandidate: *m,
		Start:            start,
		End:              start.Add(dur),
		Summary:          m.Title,
		EventDetail:      "Participants: " + strings.Join(m.Participants, ", "),
	}, nil
}

// StoredMeeting is a scheduled meeting persisted by the record store.
type StoredMeeting struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Meeting   ScheduledMeeting `json:"meeting"`

	// EventLink is the calendar event URL when the meeting was published.
	EventLink string `json:"event_link,omitempty"`
}
