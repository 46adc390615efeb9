package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driven"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

var errNoStore = errors.New("record store not configured")

// RecordService reads persisted résumés and meetings.
type RecordService struct {
	resumes  driven.ResumeStore
	meetings driven.MeetingStore
}

// NewRecordService creates a record service.
func NewRecordService(resumes driven.ResumeStore, meetings driven.MeetingStore) *RecordService {
	return &RecordService{resumes: resumes, meetings: meetings}
}

// ListResumes returns stored résumés, newest first.
func (s *RecordService) ListResumes(ctx context.Context, limit int) ([]domain.StoredResume, error) {
	if s.resumes == nil {
		return nil, errNoStore
	}
	return s.resumes.ListResumes(ctx, limit)
}

// GetResume returns one stored résumé.
func (s *RecordService) GetResume(ctx context.Context, id string) (*domain.StoredResume, error) {
	if s.resumes == nil {
		return nil, errNoStore
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.resumes.GetResume(ctx, id)
}

// LastResume returns the most recently stored résumé.
func (s *RecordService) LastResume(ctx context.Context) (*domain.StoredResume, error) {
	if s.resumes == nil {
		return nil, errNoStore
	}
	return s.resumes.LastResume(ctx)
}

// DeleteResume removes a stored résumé.
func (s *RecordService) DeleteResume(ctx context.Context, id string) error {
	if s.resumes == nil {
		return errNoStore
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.resumes.DeleteResume(ctx, id)
}

// ListMeetings returns stored meetings, newest first.
func (s *RecordService) ListMeetings(ctx context.Context, limit int) ([]domain.StoredMeeting, error) {
	if s.meetings == nil {
		return nil, errNoStore
	}
	return s.meetings.ListMeetings(ctx, limit)
}

// GetMeeting returns one stored meeting.
func (s *RecordService) GetMeeting(ctx context.Context, id string) (*domain.StoredMeeting, error) {
	if s.meetings == nil {
		return nil, errNoStore
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.meetings.GetMeeting(ctx, id)
}
