package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

const defaultListLimit = 20

// ParseResumeInput is the input schema for the parse_resume tool.
type ParseResumeInput struct {
	Path     string `json:"path,omitempty" jsonschema:"path of a PDF, DOCX or text résumé on this machine"`
	Text     string `json:"text,omitempty" jsonschema:"résumé text, used when path is empty"`
	Filename string `json:"filename,omitempty" jsonschema:"name to store with text input"`
	NoSave   bool   `json:"no_save,omitempty" jsonschema:"do not store the record"`
}

// ParseResumeOutput is the output schema for the parse_resume tool.
type ParseResumeOutput struct {
	ID       string         `json:"id,omitempty"`
	Record   map[string]any `json:"record"`
	Failures []string       `json:"failures,omitempty"`
}

// MeetingInput is the input schema for the meeting tools.
type MeetingInput struct {
	Text string `json:"text" jsonschema:"free text that may contain a meeting request"`
}

// ExtractMeetingOutput is the output schema for the extract_meeting tool.
type ExtractMeetingOutput struct {
	Found   bool                     `json:"found"`
	Meeting *domain.MeetingCandidate `json:"meeting,omitempty"`
}

// ScheduleMeetingOutput is the output schema for the schedule_meeting tool.
type ScheduleMeetingOutput struct {
	Scheduled bool            `json:"scheduled"`
	Meeting   *MeetingSummary `json:"meeting,omitempty"`
}

// ListInput is the input schema for the list tools.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 20)"`
}

// ResumeSummary is one entry of list_resumes.
type ResumeSummary struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	UploadedAt    time.Time `json:"upload_date"`
	CandidateName string    `json:"candidate_name,omitempty"`
	Category      string    `json:"category,omitempty"`
}

// ListResumesOutput is the output schema for the list_resumes tool.
type ListResumesOutput struct {
	Resumes []ResumeSummary `json:"resumes"`
	Count   int             `json:"count"`
}

// GetInput is the input schema for the get tools.
type GetInput struct {
	ID string `json:"id" jsonschema:"record ID"`
}

// GetResumeOutput is the output schema for the get_resume tool.
type GetResumeOutput struct {
	Resume *domain.StoredResume `json:"resume"`
}

// MeetingSummary describes a stored meeting.
type MeetingSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Participants []string  `json:"participants,omitempty"`
	EventLink    string    `json:"event_link,omitempty"`
}

// ListMeetingsOutput is the output schema for the list_meetings tool.
type ListMeetingsOutput struct {
	Meetings []MeetingSummary `json:"meetings"`
	Count    int              `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_resume",
		Description: "Extract structured sections and a category from a résumé",
	}, s.handleParseResume)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_meeting",
		Description: "Detect a meeting request in free text without scheduling it",
	}, s.handleExtractMeeting)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "schedule_meeting",
		Description: "Detect a meeting request in free text, store it and publish it to the calendar",
	}, s.handleScheduleMeeting)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_resumes",
		Description: "List stored résumés, newest first",
	}, s.handleListResumes)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_resume",
		Description: "Get a stored résumé with its extracted data",
	}, s.handleGetResume)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_meetings",
		Description: "List scheduled meetings, newest first",
	}, s.handleListMeetings)
}

func (s *Server) handleParseResume(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseResumeInput,
) (*mcp.CallToolResult, ParseResumeOutput, error) {
	if s.ports.Resumes == nil {
		return nil, ParseResumeOutput{}, errServiceUnavailable
	}
	opts := driving.ParseOptions{NoSave: input.NoSave}

	var (
		parsed *driving.ParsedResume
		err    error
	)
	switch {
	case input.Path != "":
		parsed, err = s.ports.Resumes.ParseFile(ctx, input.Path, opts)
	case strings.TrimSpace(input.Text) != "":
		name := input.Filename
		if name == "" {
			name = "resume.txt"
		}
		parsed, err = s.ports.Resumes.ParseDocument(ctx, name, domain.MIMETypePlainText, []byte(input.Text), opts)
	default:
		return nil, ParseResumeOutput{}, errors.New("either path or text is required")
	}
	if err != nil {
		return nil, ParseResumeOutput{}, err
	}

	record, err := parsed.Record.ToMap()
	if err != nil {
		return nil, ParseResumeOutput{}, err
	}
	output := ParseResumeOutput{Record: record}
	if parsed.Stored != nil {
		output.ID = parsed.Stored.ID
	}
	for _, f := range parsed.Record.Failures() {
		output.Failures = append(output.Failures, string(f))
	}
	return nil, output, nil
}

func (s *Server) handleExtractMeeting(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MeetingInput,
) (*mcp.CallToolResult, ExtractMeetingOutput, error) {
	if s.ports.Meetings == nil {
		return nil, ExtractMeetingOutput{}, errServiceUnavailable
	}
	m, err := s.ports.Meetings.Extract(ctx, input.Text)
	if err != nil {
		return nil, ExtractMeetingOutput{}, err
	}
	return nil, ExtractMeetingOutput{Found: m != nil, Meeting: m}, nil
}

func (s *Server) handleScheduleMeeting(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MeetingInput,
) (*mcp.CallToolResult, ScheduleMeetingOutput, error) {
	if s.ports.Meetings == nil {
		return nil, ScheduleMeetingOutput{}, errServiceUnavailable
	}
	stored, err := s.ports.Meetings.Schedule(ctx, input.Text)
	if errors.Is(err, domain.ErrNoMeeting) {
		return nil, ScheduleMeetingOutput{}, nil
	}
	if err != nil {
		return nil, ScheduleMeetingOutput{}, err
	}
	summary := summariseMeeting(stored)
	return nil, ScheduleMeetingOutput{Scheduled: true, Meeting: &summary}, nil
}

func (s *Server) handleListResumes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListResumesOutput, error) {
	resumes, err := s.ports.Records.ListResumes(ctx, listLimit(input.Limit))
	if err != nil {
		return nil, ListResumesOutput{}, err
	}
	output := ListResumesOutput{
		Resumes: make([]ResumeSummary, len(resumes)),
		Count:   len(resumes),
	}
	for i := range resumes {
		output.Resumes[i] = summariseResume(&resumes[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetResume(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, GetResumeOutput, error) {
	r, err := s.ports.Records.GetResume(ctx, input.ID)
	if err != nil {
		return nil, GetResumeOutput{}, err
	}
	return nil, GetResumeOutput{Resume: r}, nil
}

func (s *Server) handleListMeetings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListMeetingsOutput, error) {
	meetings, err := s.ports.Records.ListMeetings(ctx, listLimit(input.Limit))
	if err != nil {
		return nil, ListMeetingsOutput{}, err
	}
	output := ListMeetingsOutput{
		Meetings: make([]MeetingSummary, len(meetings)),
		Count:    len(meetings),
	}
	for i := range meetings {
		output.Meetings[i] = summariseMeeting(&meetings[i])
	}
	return nil, output, nil
}

func listLimit(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}

func summariseResume(r *domain.StoredResume) ResumeSummary {
	return ResumeSummary{
		ID:            r.ID,
		Filename:      r.Filename,
		UploadedAt:    r.UploadedAt,
		CandidateName: r.CandidateName(),
		Category:      r.Category(),
	}
}

func summariseMeeting(m *domain.StoredMeeting) MeetingSummary {
	return MeetingSummary{
		ID:           m.ID,
		Title:        m.Meeting.Summary,
		Start:        m.Meeting.Start,
		End:          m.Meeting.End,
		Participants: m.Meeting.Participants,
		EventLink:    m.EventLink,
	}
}
