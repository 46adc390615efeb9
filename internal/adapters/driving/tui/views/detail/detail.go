// Package detail provides a scrollable view of a single résumé or meeting.
package detail

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resumex/internal/core/domain"
)

// View shows one record in a viewport.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	title    string
	content  string
}

// NewView creates an empty detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		viewport: viewport.New(80, 20),
	}
}

// Update handles scrolling and the back key.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, v.keymap.Back) {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewList} }
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the title and the scrolled content.
func (v *View) View() string {
	return v.styles.Title.Render(v.title) + "\n\n" + v.viewport.View()
}

// SetDimensions sets the view dimensions. The title and status bar take
// four rows.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-4, 1)
}

// Title returns the heading of the shown record.
func (v *View) Title() string {
	return v.title
}

// Content returns the unscrolled body of the shown record.
func (v *View) Content() string {
	return v.content
}

func (v *View) show(title, content string) {
	v.title = title
	v.content = content
	v.viewport.SetContent(content)
	v.viewport.GotoTop()
}

// ShowResume renders a stored résumé section by section.
func (v *View) ShowResume(r domain.StoredResume) {
	title := r.CandidateName()
	if title == "" {
		title = r.Filename
	}

	var b strings.Builder
	v.field(&b, "ID", r.ID)
	v.field(&b, "File", r.Filename)
	v.field(&b, "Uploaded", r.UploadedAt.Local().Format("2006-01-02 15:04"))
	v.field(&b, "Category", r.Category())

	names := make([]domain.SchemaName, 0, len(domain.Schemas())+1)
	for _, d := range domain.Schemas() {
		names = append(names, d.Name)
	}
	names = append(names, domain.SchemaClassification)
	for _, name := range names {
		value, ok := r.Parsed[string(name)]
		if !ok {
			continue
		}
		b.WriteString("\n" + v.styles.Subtitle.Render(strings.ReplaceAll(string(name), "_", " ")) + "\n")
		if marker, isErr := value.(string); isErr {
			b.WriteString(v.styles.Error.Render(marker) + "\n")
			continue
		}
		b.WriteString(formatValue(value) + "\n")
	}
	if r.RawTextSample != "" {
		b.WriteString("\n" + v.styles.Subtitle.Render("Source text") + "\n")
		b.WriteString(v.styles.Muted.Render(r.RawTextSample) + "\n")
	}
	v.show(title, b.String())
}

// ShowMeeting renders a stored meeting.
func (v *View) ShowMeeting(m domain.StoredMeeting) {
	title := m.Meeting.Summary
	if title == "" {
		title = "(untitled)"
	}

	var b strings.Builder
	v.field(&b, "ID", m.ID)
	v.field(&b, "Start", m.Meeting.Start.Format(domain.MeetingDateTimeLayout))
	v.field(&b, "End", m.Meeting.End.Format(domain.MeetingDateTimeLayout))
	v.field(&b, "Participants", strings.Join(m.Meeting.Participants, ", "))
	if m.Meeting.Location != nil {
		v.field(&b, "Location", *m.Meeting.Location)
	}
	if m.Meeting.Notes != nil {
		v.field(&b, "Notes", *m.Meeting.Notes)
	}
	v.field(&b, "Confidence", fmt.Sprintf("%.2f", m.Meeting.ConfidenceScore))
	v.field(&b, "Event", m.EventLink)
	if m.Meeting.EventDetail != "" {
		b.WriteString("\n" + m.Meeting.EventDetail + "\n")
	}
	v.show(title, b.String())
}

func (v *View) field(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s %s\n", v.styles.Subtitle.Render(label+":"), value)
}

// formatValue renders a parsed section as indented JSON.
func formatValue(value any) string {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(out)
}
