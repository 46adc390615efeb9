// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/resumex/internal/core/domain"
)

// Collection identifies which kind of record is being browsed.
type Collection int

const (
	// CollectionResumes lists stored résumés.
	CollectionResumes Collection = iota
	// CollectionMeetings lists scheduled meetings.
	CollectionMeetings
)

// String returns the tab label of the collection.
func (c Collection) String() string {
	switch c {
	case CollectionResumes:
		return "Résumés"
	case CollectionMeetings:
		return "Meetings"
	default:
		return "unknown"
	}
}

// Next returns the other collection.
func (c Collection) Next() Collection {
	if c == CollectionResumes {
		return CollectionMeetings
	}
	return CollectionResumes
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewList is the record list.
	ViewList ViewType = iota
	// ViewDetail shows a single record.
	ViewDetail
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ResumesLoaded carries stored résumés back to the model.
type ResumesLoaded struct {
	Resumes []domain.StoredResume
	Err     error
}

// MeetingsLoaded carries stored meetings back to the model.
type MeetingsLoaded struct {
	Meetings []domain.StoredMeeting
	Err      error
}

// ResumeSelected is sent when a résumé is opened.
type ResumeSelected struct {
	Resume domain.StoredResume
}

// MeetingSelected is sent when a meeting is opened.
type MeetingSelected struct {
	Meeting domain.StoredMeeting
}

// DeleteRequested asks for a résumé to be removed.
type DeleteRequested struct {
	ID string
}

// ResumeDeleted reports the outcome of a delete.
type ResumeDeleted struct {
	ID  string
	Err error
}
