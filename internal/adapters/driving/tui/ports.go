// Package tui provides an interactive terminal browser for stored résumés
// and scheduled meetings. It is a driving adapter over the record service.
package tui

import (
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Records reads and deletes stored résumés and meetings.
	Records driving.RecordService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Records == nil {
		return ErrMissingRecordService
	}
	return nil
}
