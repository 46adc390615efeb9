package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/resumex/internal/adapters/driving/tui/views/records"
)

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	styles *styles.Styles
	keymap *keymap.KeyMap

	recordsView *records.View
	detailView  *detail.View
	statusBar   *status.Bar

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// The context bounds every call made to the record service.
func NewApp(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		styles:      s,
		keymap:      keymap.DefaultKeyMap(),
		recordsView: records.NewView(ctx, s, ports.Records),
		detailView:  detail.NewView(s),
		statusBar:   status.NewBar(s),
		currentView: messages.ViewList,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("resumex"),
		a.recordsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewDetail {
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd
		}
		if !a.recordsView.Filtering() && key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ResumeSelected:
		a.detailView.ShowResume(msg.Resume)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.MeetingSelected:
		a.detailView.ShowMeeting(msg.Meeting)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.ResumesLoaded, messages.MeetingsLoaded, messages.ResumeDeleted:
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd
	}

	if a.currentView == messages.ViewDetail {
		a.detailView, cmd = a.detailView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var body string
	if a.currentView == messages.ViewDetail {
		body = a.detailView.View()
	} else {
		body = a.recordsView.View()
	}
	return body + "\n\n" + a.renderStatus()
}

func (a *App) renderStatus() string {
	a.statusBar.Clear()
	if a.currentView == messages.ViewDetail {
		a.statusBar.SetBindings(a.keymap.DetailHelp())
		a.statusBar.SetMessage(a.detailView.Title())
		return a.statusBar.View()
	}

	a.statusBar.SetBindings(a.keymap.ListHelp())
	switch {
	case a.recordsView.Err() != nil:
		a.statusBar.SetError(a.recordsView.Err())
	case a.recordsView.Loading():
		a.statusBar.SetState(status.StateLoading)
	case a.recordsView.Notice() != "":
		a.statusBar.SetMessage(a.recordsView.Notice())
	default:
		noun := "résumés"
		if a.recordsView.Collection() == messages.CollectionMeetings {
			noun = "meetings"
		}
		a.statusBar.SetCount(a.recordsView.Count(), noun)
	}
	return a.statusBar.View()
}

// SetDimensions forwards the terminal size to every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.recordsView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Run starts the program on the alternate screen and blocks until the
// user quits.
func Run(ctx context.Context, ports *Ports, opts ...tea.ProgramOption) error {
	app, err := NewApp(ctx, ports)
	if err != nil {
		return err
	}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
