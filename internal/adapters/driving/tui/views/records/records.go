// Package records provides the tabbed résumé and meeting list view.
package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resumex/internal/core/domain"
	"github.com/custodia-labs/resumex/internal/core/ports/driving"
)

// DefaultLimit is the number of records loaded per collection.
const DefaultLimit = 200

// View lists stored résumés and meetings on two tabs.
type View struct {
	ctx     context.Context
	records driving.RecordService
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	limit   int

	collection messages.Collection
	resumes    []domain.StoredResume
	meetings   []domain.StoredMeeting
	resumeList *list.RecordList
	meetList   *list.RecordList
	filter     *input.FilterInput

	loading int
	err     error
	notice  string
	width   int
	height  int
}

// NewView creates a records view backed by the record service.
func NewView(ctx context.Context, s *styles.Styles, records driving.RecordService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	resumeList := list.NewRecordList(s)
	resumeList.SetEmptyText("No résumés stored.")
	meetList := list.NewRecordList(s)
	meetList.SetEmptyText("No meetings scheduled.")

	return &View{
		ctx:        ctx,
		records:    records,
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		limit:      DefaultLimit,
		resumeList: resumeList,
		meetList:   meetList,
		filter:     input.NewFilterInput(s),
		width:      80,
		height:     24,
	}
}

// Init loads both collections.
func (v *View) Init() tea.Cmd {
	return v.Refresh()
}

// Refresh reloads both collections from the store.
func (v *View) Refresh() tea.Cmd {
	v.loading = 2
	v.err = nil
	return tea.Batch(v.loadResumes(), v.loadMeetings())
}

func (v *View) loadResumes() tea.Cmd {
	ctx, records, limit := v.ctx, v.records, v.limit
	return func() tea.Msg {
		resumes, err := records.ListResumes(ctx, limit)
		return messages.ResumesLoaded{Resumes: resumes, Err: err}
	}
}

func (v *View) loadMeetings() tea.Cmd {
	ctx, records, limit := v.ctx, v.records, v.limit
	return func() tea.Msg {
		meetings, err := records.ListMeetings(ctx, limit)
		return messages.MeetingsLoaded{Meetings: meetings, Err: err}
	}
}

func (v *View) deleteResume(id string) tea.Cmd {
	ctx, records := v.ctx, v.records
	return func() tea.Msg {
		return messages.ResumeDeleted{ID: id, Err: records.DeleteResume(ctx, id)}
	}
}

// Update handles messages for the records view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ResumesLoaded:
		v.loading = max(v.loading-1, 0)
		if msg.Err != nil {
			v.err = fmt.Errorf("list résumés: %w", msg.Err)
			return v, nil
		}
		v.resumes = msg.Resumes
		v.resumeList.SetItems(resumeItems(msg.Resumes))
		return v, nil

	case messages.MeetingsLoaded:
		v.loading = max(v.loading-1, 0)
		if msg.Err != nil {
			v.err = fmt.Errorf("list meetings: %w", msg.Err)
			return v, nil
		}
		v.meetings = msg.Meetings
		v.meetList.SetItems(meetingItems(msg.Meetings))
		return v, nil

	case messages.ResumeDeleted:
		if msg.Err != nil {
			v.err = fmt.Errorf("delete %s: %w", msg.ID, msg.Err)
			return v, nil
		}
		v.notice = "Deleted " + msg.ID
		v.loading++
		return v, v.loadResumes()

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.updateFilter(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) updateFilter(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // other keys go to the input
	switch msg.Type {
	case tea.KeyEsc:
		v.filter.Reset()
		v.filter.Blur()
		v.applyFilter()
		return v, nil
	case tea.KeyEnter:
		v.filter.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.applyFilter()
	return v, cmd
}

func (v *View) applyFilter() {
	v.resumeList.SetFilter(v.filter.Value())
	v.meetList.SetFilter(v.filter.Value())
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.notice = ""
	switch {
	case key.Matches(msg, v.keymap.Switch):
		v.collection = v.collection.Next()
		return v, nil
	case key.Matches(msg, v.keymap.Filter):
		return v, v.filter.Focus()
	case key.Matches(msg, v.keymap.Back):
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.applyFilter()
		}
		return v, nil
	case key.Matches(msg, v.keymap.Refresh):
		return v, v.Refresh()
	case key.Matches(msg, v.keymap.Delete):
		if v.collection != messages.CollectionResumes {
			return v, nil
		}
		if item, ok := v.resumeList.SelectedItem(); ok {
			return v, v.deleteResume(item.ID)
		}
		return v, nil
	case key.Matches(msg, v.keymap.Select):
		return v, v.open()
	}

	var cmd tea.Cmd
	if v.collection == messages.CollectionResumes {
		v.resumeList, cmd = v.resumeList.Update(msg)
	} else {
		v.meetList, cmd = v.meetList.Update(msg)
	}
	return v, cmd
}

// open emits a selection message for the highlighted record.
func (v *View) open() tea.Cmd {
	if v.collection == messages.CollectionResumes {
		item, ok := v.resumeList.SelectedItem()
		if !ok {
			return nil
		}
		for _, r := range v.resumes {
			if r.ID == item.ID {
				return func() tea.Msg { return messages.ResumeSelected{Resume: r} }
			}
		}
		return nil
	}
	item, ok := v.meetList.SelectedItem()
	if !ok {
		return nil
	}
	for _, m := range v.meetings {
		if m.ID == item.ID {
			return func() tea.Msg { return messages.MeetingSelected{Meeting: m} }
		}
	}
	return nil
}

// View renders the tabs, filter and active list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")
	if v.filter.Focused() || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}
	b.WriteString(v.activeList().View())
	return b.String()
}

func (v *View) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, c := range []messages.Collection{messages.CollectionResumes, messages.CollectionMeetings} {
		label := fmt.Sprintf("%s (%d)", c, v.total(c))
		if c == v.collection {
			tabs = append(tabs, v.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, v.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *View) total(c messages.Collection) int {
	if c == messages.CollectionResumes {
		return len(v.resumes)
	}
	return len(v.meetings)
}

func (v *View) activeList() *list.RecordList {
	if v.collection == messages.CollectionResumes {
		return v.resumeList
	}
	return v.meetList
}

// SetDimensions sets the view dimensions. Tabs, filter and the status
// bar take six rows.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.resumeList.SetDimensions(width, max(height-6, 1))
	v.meetList.SetDimensions(width, max(height-6, 1))
	v.filter.SetWidth(width)
}

// Collection returns the active tab.
func (v *View) Collection() messages.Collection {
	return v.collection
}

// Count returns the number of rows shown in the active tab.
func (v *View) Count() int {
	return v.activeList().Count()
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading > 0
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last informational message.
func (v *View) Notice() string {
	return v.notice
}

func resumeItems(resumes []domain.StoredResume) []list.Item {
	items := make([]list.Item, 0, len(resumes))
	for _, r := range resumes {
		name := r.CandidateName()
		if name == "" {
			name = "(unknown)"
		}
		detail := r.UploadedAt.Local().Format("2006-01-02 15:04")
		if cat := r.Category(); cat != "" {
			detail += "  " + cat
		}
		items = append(items, list.Item{ID: r.ID, Title: name, Detail: detail + "  " + r.Filename})
	}
	return items
}

func meetingItems(meetings []domain.StoredMeeting) []list.Item {
	items := make([]list.Item, 0, len(meetings))
	for _, m := range meetings {
		title := m.Meeting.Summary
		if title == "" {
			title = "(untitled)"
		}
		detail := m.Meeting.Start.Format("2006-01-02 15:04")
		if len(m.Meeting.Participants) > 0 {
			detail += "  " + strings.Join(m.Meeting.Participants, ", ")
		}
		items = append(items, list.Item{ID: m.ID, Title: title, Detail: detail})
	}
	return items
}
