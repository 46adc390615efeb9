// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
)

// FilterInput wraps a bubbles textinput used to narrow a record list.
type FilterInput struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewFilterInput creates a blurred filter input.
func NewFilterInput(s *styles.Styles) *FilterInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "name, category or file..."
	ti.CharLimit = 128
	ti.Width = 40

	return &FilterInput{
		textinput: ti,
		styles:    s,
	}
}

// Update handles input messages.
func (f *FilterInput) Update(msg tea.Msg) (*FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the filter input.
func (f *FilterInput) View() string {
	label := f.styles.Subtitle.Render("Filter: ")
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, f.styles.InputField.Render(f.textinput.View()))
}

// Value returns the current input value.
func (f *FilterInput) Value() string {
	return f.textinput.Value()
}

// Focus sets focus on the input.
func (f *FilterInput) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *FilterInput) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *FilterInput) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the input.
func (f *FilterInput) SetWidth(width int) {
	f.textinput.Width = max(width-14, 20)
}

// Reset clears the input.
func (f *FilterInput) Reset() {
	f.textinput.Reset()
}
