// Package google provides shared infrastructure for the Google Calendar publisher.
//
// This package contains:
//   - Credential loading from a service account, authorised user or token file
//   - Service factories for creating Google API clients
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts, err := google.TokenSourceFromFile(ctx, path)
//	svc, err := google.NewCalendarService(ctx, option.WithTokenSource(ts))
//
// # OAuth2 Scopes
//
// The publisher only needs https://www.googleapis.com/auth/calendar.events.
package google
