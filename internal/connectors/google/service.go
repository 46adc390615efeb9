package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarScopes are the OAuth2 scopes requested for publishing events.
var CalendarScopes = []string{calendar.CalendarEventsScope}

// NewCalendarService creates a Google Calendar API service.
// Callers pass option.WithTokenSource for real credentials, or
// option.WithHTTPClient and option.WithEndpoint to point at a test server.
func NewCalendarService(ctx context.Context, opts ...option.ClientOption) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: creating calendar service: %w", err)
	}
	return svc, nil
}
