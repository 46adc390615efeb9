// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Back returns to the previous view or clears the filter.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select opens the highlighted record.
	Select key.Binding

	// Switch toggles between résumés and meetings.
	Switch key.Binding

	// Filter focuses the filter input.
	Filter key.Binding

	// Refresh reloads records from the store.
	Refresh key.Binding

	// Delete removes the highlighted résumé.
	Delete key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "résumés/meetings"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// ListHelp returns the hints shown while browsing a collection.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Select, k.Switch, k.Filter, k.Delete, k.Quit}
}

// DetailHelp returns the hints shown on a record.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}
