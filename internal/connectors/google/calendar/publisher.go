// Package calendar publishes scheduled meetings as Google Calendar events.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/resumex/internal/connectors/google"
	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.CalendarPublisher = (*Publisher)(nil)

// DefaultCalendarID is the authenticated user's main calendar.
const DefaultCalendarID = "primary"

// DefaultTimeZone is used for event times, which carry no offset.
const DefaultTimeZone = "UTC"

// eventTimeLayout is an RFC 3339 local time; the zone comes from TimeZone.
const eventTimeLayout = "2006-01-02T15:04:05"

// Config holds publisher settings.
type Config struct {
	// CredentialsFile is a service account, authorised user or token JSON file.
	CredentialsFile string

	// CalendarID is the target calendar. Defaults to "primary".
	CalendarID string

	// TimeZone is an IANA zone name for event times. Defaults to "UTC".
	TimeZone string

	// RateLimit overrides the default calendar rate limit.
	RateLimit google.RateLimitConfig

	// HTTPClient and Endpoint bypass credential loading (for testing).
	HTTPClient *http.Client
	Endpoint   string
}

// Publisher inserts events into a Google calendar.
type Publisher struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
	limiter    *google.RateLimiter
}

// NewPublisher creates a publisher from cfg.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	var opts []option.ClientOption
	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.CredentialsFile != "":
		ts, err := google.TokenSourceFromFile(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTokenSource(ts))
	default:
		return nil, fmt.Errorf("google calendar: %w: no credentials file", domain.ErrInvalidInput)
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := google.NewCalendarService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.CalendarID == "" {
		cfg.CalendarID = DefaultCalendarID
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = DefaultTimeZone
	}

	return &Publisher{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timeZone:   cfg.TimeZone,
		limiter:    google.NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Publish creates the event and returns its HTML link.
func (p *Publisher) Publish(ctx context.Context, meeting *domain.ScheduledMeeting) (string, error) {
	if meeting == nil {
		return "", fmt.Errorf("google calendar: %w: nil meeting", domain.ErrInvalidInput)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	created, err := p.svc.Events.Insert(p.calendarID, p.event(meeting)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		if google.IsRateLimited(err) {
			p.limiter.RecordRateLimitError(0)
		}
		return "", fmt.Errorf("google calendar: inserting event: %w", google.WrapError(err))
	}
	if created.HtmlLink == "" {
		return "", errors.New("google calendar: event created without a link")
	}
	return created.HtmlLink, nil
}

func (p *Publisher) event(m *domain.ScheduledMeeting) *calendar.Event {
	ev := &calendar.Event{
		Summary:     m.Summary,
		Description: eventDescription(m),
		Start: &calendar.EventDateTime{
			DateTime: m.Start.Format(eventTimeLayout),
			TimeZone: p.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: m.End.Format(eventTimeLayout),
			TimeZone: p.timeZone,
		},
	}
	if m.Location != nil {
		ev.Location = *m.Location
	}
	for _, who := range m.Participants {
		if isEmail(who) {
			ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: strings.TrimSpace(who)})
		}
	}
	return ev
}

// eventDescription appends notes to the participant line.
func eventDescription(m *domain.ScheduledMeeting) string {
	parts := []string{m.EventDetail}
	if m.Notes != nil && strings.TrimSpace(*m.Notes) != "" {
		parts = append(parts, "Notes: "+strings.TrimSpace(*m.Notes))
	}
	return strings.Join(parts, "\n\n")
}

// isEmail is a loose check; names without an address are left out of the
// attendee list but remain in the description.
func isEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
