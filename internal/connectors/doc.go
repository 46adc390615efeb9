// Package connectors holds the integrations that move résumés and meetings
// in and out of the application: the filesystem inbox that feeds the
// parser and the Google Calendar publisher for scheduled meetings.
package connectors
