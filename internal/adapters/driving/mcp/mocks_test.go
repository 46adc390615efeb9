package mcp

import (
	"context"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// mockResumeService is a mock implementation of driving.ResumeService.
type mockResumeService struct {
	parsed   *driving.ParsedResume
	err      error
	path     string
	filename string
	mimeType string
	content  string
	opts     driving.ParseOptions
}

func (m *mockResumeService) Parse(_ context.Context, _ string) (*domain.AggregatedRecord, error) {
	if m.parsed == nil {
		return nil, m.err
	}
	return m.parsed.Record, m.err
}

func (m *mockResumeService) ParseFile(_ context.Context, path string, opts driving.ParseOptions) (*driving.ParsedResume, error) {
	m.path, m.opts = path, opts
	return m.parsed, m.err
}

func (m *mockResumeService) ParseDocument(
	_ context.Context,
	filename, mimeType string,
	content []byte,
	opts driving.ParseOptions,
) (*driving.ParsedResume, error) {
	m.filename, m.mimeType, m.content, m.opts = filename, mimeType, string(content), opts
	return m.parsed, m.err
}

// mockMeetingService is a mock implementation of driving.MeetingService.
type mockMeetingService struct {
	candidate *domain.MeetingCandidate
	stored    *domain.StoredMeeting
	err       error
}

func (m *mockMeetingService) Extract(_ context.Context, _ string) (*domain.MeetingCandidate, error) {
	return m.candidate, m.err
}

func (m *mockMeetingService) Schedule(_ context.Context, _ string) (*domain.StoredMeeting, error) {
	return m.stored, m.err
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	resumes  []domain.StoredResume
	meetings []domain.StoredMeeting
	err      error
	limit    int
}

func (m *mockRecordService) ListResumes(_ context.Context, limit int) ([]domain.StoredResume, error) {
	m.limit = limit
	return m.resumes, m.err
}

func (m *mockRecordService) GetResume(_ context.Context, id string) (*domain.StoredResume, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.resumes {
		if m.resumes[i].ID == id {
			return &m.resumes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRecordService) LastResume(_ context.Context) (*domain.StoredResume, error) {
	if len(m.resumes) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.resumes[0], m.err
}

func (m *mockRecordService) DeleteResume(_ context.Context, _ string) error {
	return m.err
}

func (m *mockRecordService) ListMeetings(_ context.Context, limit int) ([]domain.StoredMeeting, error) {
	m.limit = limit
	return m.meetings, m.err
}

func (m *mockRecordService) GetMeeting(_ context.Context, id string) (*domain.StoredMeeting, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.meetings {
		if m.meetings[i].ID == id {
			return &m.meetings[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
