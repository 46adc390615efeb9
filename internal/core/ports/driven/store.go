package driven

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// ResumeStore persists parsed résumés.
type ResumeStore interface {
	// SaveResume inserts or replaces a résumé by ID.
	SaveResume(ctx context.Context, resume *domain.StoredResume) error

	// GetResume returns a résumé by ID or domain.ErrNotFound.
	GetResume(ctx context.Context, id string) (*domain.StoredResume, error)

	// ListResumes returns résumés newest first. A limit of zero means all.
	ListResumes(ctx context.Context, limit int) ([]domain.StoredResume, error)

	// LastResume returns the most recently uploaded résumé or domain.ErrNotFound.
	LastResume(ctx context.Context) (*domain.StoredResume, error)

	// DeleteResume removes a résumé. Missing IDs are not an error.
	DeleteResume(ctx context.Context, id string) error
}

// MeetingStore persists scheduled meetings.
type MeetingStore interface {
	// SaveMeeting inserts or replaces a meeting by ID.
	SaveMeeting(ctx context.Context, meeting *domain.StoredMeeting) error

	// GetMeeting returns a meeting by ID or domain.ErrNotFound.
	GetMeeting(ctx context.Context, id string) (*domain.StoredMeeting, error)

	// ListMeetings returns meetings newest first. A limit of zero means all.
	ListMeetings(ctx context.Context, limit int) ([]domain.StoredMeeting, error)
}

// CalendarPublisher creates calendar events for scheduled meetings.
type CalendarPublisher interface {
	// Publish creates the event and returns its link.
	Publish(ctx context.Context, meeting *domain.ScheduledMeeting) (string, error)
}
