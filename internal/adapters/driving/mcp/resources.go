package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resumex/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for resumex resources.
	uriScheme = "resumex://"

	// resourceListLimit caps the static listing resources.
	resourceListLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "resumes",
		Name:        "resumes",
		Description: "Stored résumés, newest first",
		MIMEType:    "application/json",
	}, s.handleResumesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "resumes/{resumeId}",
		Name:        "resume",
		Description: "A stored résumé with its extracted data",
		MIMEType:    "application/json",
	}, s.handleResumeResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "meetings",
		Name:        "meetings",
		Description: "Scheduled meetings, newest first",
		MIMEType:    "application/json",
	}, s.handleMeetingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "meetings/{meetingId}",
		Name:        "meeting",
		Description: "A scheduled meeting",
		MIMEType:    "application/json",
	}, s.handleMeetingResource)
}

// handleResumesResource returns summaries of stored résumés.
func (s *Server) handleResumesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	resumes, err := s.ports.Records.ListResumes(ctx, resourceListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	infos := make([]ResumeSummary, len(resumes))
	for i := range resumes {
		infos[i] = summariseResume(&resumes[i])
	}
	return jsonResource(req.Params.URI, infos)
}

// handleResumeResource returns one stored résumé.
func (s *Server) handleResumeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractID(req.Params.URI, "resumes/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	r, err := s.ports.Records.GetResume(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting resume: %w", err)
	}
	return jsonResource(req.Params.URI, r)
}

// handleMeetingsResource returns summaries of scheduled meetings.
func (s *Server) handleMeetingsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	meetings, err := s.ports.Records.ListMeetings(ctx, resourceListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	infos := make([]MeetingSummary, len(meetings))
	for i := range meetings {
		infos[i] = summariseMeeting(&meetings[i])
	}
	return jsonResource(req.Params.URI, infos)
}

// handleMeetingResource returns one scheduled meeting.
func (s *Server) handleMeetingResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractID(req.Params.URI, "meetings/")
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	m, err := s.ports.Records.GetMeeting(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting meeting: %w", err)
	}
	return jsonResource(req.Params.URI, m)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractID extracts the ID from a URI like resumex://resumes/{id}.
// Nested paths are rejected.
func extractID(uri, collection string) string {
	prefix := uriScheme + collection
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
