package mcp

import (
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Resumes parses uploaded résumés. Nil when no LLM is configured.
	Resumes driving.ResumeService

	// Meetings extracts and schedules meetings. Nil when no LLM is configured.
	Meetings driving.MeetingService

	// Records browses stored résumés and meetings.
	Records driving.RecordService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Records == nil {
		return ErrMissingRecordService
	}
	return nil
}
