// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
)

// Item is one row of a record list.
type Item struct {
	// ID identifies the record behind the row.
	ID string

	// Title is the main text of the row.
	Title string

	// Detail is shown muted after the title.
	Detail string
}

// matches reports whether the item contains query, ignoring case.
func (i Item) matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(i.Title), q) ||
		strings.Contains(strings.ToLower(i.Detail), q) ||
		strings.Contains(strings.ToLower(i.ID), q)
}

// RecordList displays records in a navigable, filterable list.
type RecordList struct {
	items    []Item
	visible  []int
	filter   string
	selected int
	empty    string
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		empty:  "Nothing here yet",
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.visible) > 0 {
				r.selected = len(r.visible) - 1
			}
		}
	}
	return r, nil
}

// View renders the visible rows around the selection.
func (r *RecordList) View() string {
	if len(r.visible) == 0 {
		if r.filter != "" {
			return r.styles.Muted.Render(fmt.Sprintf("No matches for %q", r.filter))
		}
		return r.styles.Muted.Render(r.empty)
	}

	rows := r.height
	if rows < 1 {
		rows = 1
	}
	start := 0
	if r.selected >= rows {
		start = r.selected - rows + 1
	}
	end := min(start+rows, len(r.visible))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, r.items[r.visible[i]]))
	}
	return strings.Join(lines, "\n")
}

func (r *RecordList) renderItem(index int, item Item) string {
	title := item.Title
	maxTitle := max(r.width-30, 10)
	if runes := []rune(title); len(runes) > maxTitle {
		title = string(runes[:maxTitle-3]) + "..."
	}

	if index == r.selected {
		return r.styles.Selected.Render("> " + title + "  " + item.Detail)
	}
	return r.styles.Normal.Render("  "+title) + "  " + r.styles.Muted.Render(item.Detail)
}

// SetItems replaces the rows and reapplies the current filter.
func (r *RecordList) SetItems(items []Item) {
	r.items = items
	r.applyFilter()
}

// SetEmptyText sets the text shown when there are no rows.
func (r *RecordList) SetEmptyText(text string) {
	r.empty = text
}

// SetFilter narrows the rows to those containing query.
func (r *RecordList) SetFilter(query string) {
	r.filter = strings.TrimSpace(query)
	r.applyFilter()
}

// Filter returns the current filter.
func (r *RecordList) Filter() string {
	return r.filter
}

func (r *RecordList) applyFilter() {
	r.visible = r.visible[:0]
	for i, item := range r.items {
		if item.matches(r.filter) {
			r.visible = append(r.visible, i)
		}
	}
	if r.selected >= len(r.visible) {
		r.selected = max(len(r.visible)-1, 0)
	}
}

// Selected returns the position of the highlighted row among visible rows.
func (r *RecordList) Selected() int {
	return r.selected
}

// SelectedItem returns the highlighted row, or false when nothing is shown.
func (r *RecordList) SelectedItem() (Item, bool) {
	if len(r.visible) == 0 {
		return Item{}, false
	}
	return r.items[r.visible[r.selected]], true
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.visible)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions in cells.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of visible rows.
func (r *RecordList) Count() int {
	return len(r.visible)
}
