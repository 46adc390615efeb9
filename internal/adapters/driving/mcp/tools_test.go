package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Records == nil {
		ports.Records = &mockRecordService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func sampleParsed() *driving.ParsedResume {
	rec := domain.NewAggregatedRecord()
	rec.Sections[domain.SchemaPersonalDetails] = domain.Succeeded(domain.SchemaPersonalDetails,
		map[string]any{"Full_Name": "Jane Doe"})
	rec.Sections[domain.SchemaWorkExperience] = domain.Failed(domain.SchemaWorkExperience,
		errors.New("model timeout"))
	return &driving.ParsedResume{
		Record: rec,
		Stored: &domain.StoredResume{ID: "res-1", Filename: "jane.pdf"},
	}
}

func TestServer_handleParseResume(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a file path", func(t *testing.T) {
		resumes := &mockResumeService{parsed: sampleParsed()}
		server := newTestServer(t, &Ports{Resumes: resumes})

		_, output, err := server.handleParseResume(ctx, nil, ParseResumeInput{Path: "/tmp/jane.pdf", NoSave: true})

		require.NoError(t, err)
		assert.Equal(t, "/tmp/jane.pdf", resumes.path)
		assert.True(t, resumes.opts.NoSave)
		assert.Equal(t, "res-1", output.ID)
		assert.Equal(t, []string{"Work_Experience"}, output.Failures)
		assert.Equal(t, map[string]any{"Full_Name": "Jane Doe"}, output.Record["Personal_Details"])
		assert.Contains(t, output.Record["Work_Experience"], "model timeout")
	})

	t.Run("parses inline text", func(t *testing.T) {
		resumes := &mockResumeService{parsed: sampleParsed()}
		server := newTestServer(t, &Ports{Resumes: resumes})

		_, _, err := server.handleParseResume(ctx, nil, ParseResumeInput{Text: "Jane Doe\nEngineer"})

		require.NoError(t, err)
		assert.Equal(t, "resume.txt", resumes.filename)
		assert.Equal(t, domain.MIMETypePlainText, resumes.mimeType)
		assert.Equal(t, "Jane Doe\nEngineer", resumes.content)
	})

	t.Run("unsaved record has no id", func(t *testing.T) {
		parsed := sampleParsed()
		parsed.Stored = nil
		server := newTestServer(t, &Ports{Resumes: &mockResumeService{parsed: parsed}})

		_, output, err := server.handleParseResume(ctx, nil, ParseResumeInput{Text: "x", Filename: "a.txt"})

		require.NoError(t, err)
		assert.Empty(t, output.ID)
	})

	t.Run("requires path or text", func(t *testing.T) {
		server := newTestServer(t, &Ports{Resumes: &mockResumeService{}})

		_, _, err := server.handleParseResume(ctx, nil, ParseResumeInput{Text: "   "})

		assert.Error(t, err)
	})

	t.Run("service error is returned", func(t *testing.T) {
		server := newTestServer(t, &Ports{Resumes: &mockResumeService{err: domain.ErrEmptyDocument}})

		_, _, err := server.handleParseResume(ctx, nil, ParseResumeInput{Path: "empty.pdf"})

		assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	})

	t.Run("missing service", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, _, err := server.handleParseResume(ctx, nil, ParseResumeInput{Path: "a.pdf"})

		assert.ErrorIs(t, err, errServiceUnavailable)
	})
}

func TestServer_handleExtractMeeting(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		candidate *domain.MeetingCandidate
		wantFound bool
	}{
		{
			name:      "meeting found",
			candidate: &domain.MeetingCandidate{Title: "Interview", IsCalendarEvent: true, ConfidenceScore: 0.9},
			wantFound: true,
		},
		{
			name:      "no meeting",
			candidate: nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &Ports{Meetings: &mockMeetingService{candidate: tt.candidate}})

			_, output, err := server.handleExtractMeeting(ctx, nil, MeetingInput{Text: "text"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, output.Found)
			assert.Equal(t, tt.candidate, output.Meeting)
		})
	}

	t.Run("missing service", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleExtractMeeting(ctx, nil, MeetingInput{Text: "text"})
		assert.ErrorIs(t, err, errServiceUnavailable)
	})
}

func TestServer_handleScheduleMeeting(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

	t.Run("scheduled", func(t *testing.T) {
		stored := &domain.StoredMeeting{
			ID: "m-1",
			Meeting: domain.ScheduledMeeting{
				MeetingCandidate: domain.MeetingCandidate{Participants: []string{"jane@example.com"}},
				Start:            start,
				End:              start.Add(time.Hour),
				Summary:          "Interview",
			},
			EventLink: "https://calendar.example/e/1",
		}
		server := newTestServer(t, &Ports{Meetings: &mockMeetingService{stored: stored}})

		_, output, err := server.handleScheduleMeeting(ctx, nil, MeetingInput{Text: "text"})

		require.NoError(t, err)
		assert.True(t, output.Scheduled)
		require.NotNil(t, output.Meeting)
		assert.Equal(t, "m-1", output.Meeting.ID)
		assert.Equal(t, "Interview", output.Meeting.Title)
		assert.Equal(t, start.Add(time.Hour), output.Meeting.End)
		assert.Equal(t, "https://calendar.example/e/1", output.Meeting.EventLink)
	})

	t.Run("no meeting is not an error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Meetings: &mockMeetingService{err: domain.ErrNoMeeting}})

		_, output, err := server.handleScheduleMeeting(ctx, nil, MeetingInput{Text: "hello"})

		require.NoError(t, err)
		assert.False(t, output.Scheduled)
		assert.Nil(t, output.Meeting)
	})

	t.Run("publish failure is returned", func(t *testing.T) {
		server := newTestServer(t, &Ports{Meetings: &mockMeetingService{err: errors.New("publish meeting: denied")}})

		_, _, err := server.handleScheduleMeeting(ctx, nil, MeetingInput{Text: "text"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
	})
}

func TestServer_handleListResumes(t *testing.T) {
	ctx := context.Background()
	uploaded := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	records := &mockRecordService{
		resumes: []domain.StoredResume{{
			ID:         "res-1",
			Filename:   "jane.pdf",
			UploadedAt: uploaded,
			Parsed: map[string]any{
				"Personal_Details": map[string]any{"Full_Name": "Jane Doe"},
				"Classification":   map[string]any{"category": "Software Engineering"},
			},
		}},
	}
	server := newTestServer(t, &Ports{Records: records})

	t.Run("default limit", func(t *testing.T) {
		_, output, err := server.handleListResumes(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Equal(t, defaultListLimit, records.limit)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, ResumeSummary{
			ID:            "res-1",
			Filename:      "jane.pdf",
			UploadedAt:    uploaded,
			CandidateName: "Jane Doe",
			Category:      "Software Engineering",
		}, output.Resumes[0])
	})

	t.Run("explicit limit", func(t *testing.T) {
		_, _, err := server.handleListResumes(ctx, nil, ListInput{Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, records.limit)
	})

	t.Run("store error", func(t *testing.T) {
		failing := newTestServer(t, &Ports{Records: &mockRecordService{err: errors.New("disk full")}})
		_, _, err := failing.handleListResumes(ctx, nil, ListInput{})
		assert.Error(t, err)
	})
}

func TestServer_handleGetResume(t *testing.T) {
	ctx := context.Background()
	records := &mockRecordService{resumes: []domain.StoredResume{{ID: "res-1"}}}
	server := newTestServer(t, &Ports{Records: records})

	_, output, err := server.handleGetResume(ctx, nil, GetInput{ID: "res-1"})
	require.NoError(t, err)
	assert.Equal(t, "res-1", output.Resume.ID)

	_, _, err = server.handleGetResume(ctx, nil, GetInput{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleListMeetings(t *testing.T) {
	ctx := context.Background()
	records := &mockRecordService{meetings: []domain.StoredMeeting{
		{ID: "m-2", Meeting: domain.ScheduledMeeting{Summary: "Second"}},
		{ID: "m-1", Meeting: domain.ScheduledMeeting{Summary: "First"}},
	}}
	server := newTestServer(t, &Ports{Records: records})

	_, output, err := server.handleListMeetings(ctx, nil, ListInput{Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, 5, records.limit)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "Second", output.Meetings[0].Title)
	assert.Equal(t, "m-1", output.Meetings[1].ID)
}
