package driving

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

// ResumeService parses résumés into aggregated records.
type ResumeService interface {
	// Parse runs the extraction pipeline over plain text.
	// Empty input returns an empty record and no error.
	Parse(ctx context.Context, text string) (*domain.AggregatedRecord, error)

	// ParseFile reads, extracts and parses a résumé file, then stores it.
	ParseFile(ctx context.Context, path string, opts ParseOptions) (*ParsedResume, error)

	// ParseDocument parses uploaded bytes of the given MIME type, then stores it.
	ParseDocument(ctx context.Context, filename, mimeType string, content []byte, opts ParseOptions) (*ParsedResume, error)
}

// ParseOptions controls what happens after a file is parsed.
type ParseOptions struct {
	// NoSave skips persistence.
	NoSave bool
}

// ParsedResume is the outcome of parsing one file.
type ParsedResume struct {
	// Record is the aggregated extraction result.
	Record *domain.AggregatedRecord

	// Stored is the persisted form. Nil when NoSave was set.
	Stored *domain.StoredResume
}

// MeetingService extracts and schedules meetings from free text.
type MeetingService interface {
	// Extract returns the meeting candidate, or nil when the text is not
	// a meeting request or confidence is below the threshold.
	Extract(ctx context.Context, text string) (*domain.MeetingCandidate, error)

	// Schedule extracts, derives calendar fields, optionally publishes and
	// stores the meeting. Returns domain.ErrNoMeeting when nothing was detected.
	Schedule(ctx context.Context, text string) (*domain.StoredMeeting, error)
}

// RecordService reads persisted résumés and meetings.
type RecordService interface {
	ListResumes(ctx context.Context, limit int) ([]domain.StoredResume, error)
	GetResume(ctx context.Context, id string) (*domain.StoredResume, error)
	LastResume(ctx context.Context) (*domain.StoredResume, error)
	DeleteResume(ctx context.Context, id string) error
	ListMeetings(ctx context.Context, limit int) ([]domain.StoredMeeting, error)
	GetMeeting(ctx context.Context, id string) (*domain.StoredMeeting, error)
}
