package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/views/preview"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/webrecall/internal/adapters/driving/tui/views/stats"
	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// WindowTitle is the terminal title set on start.
const WindowTitle = "webrecall - Browsing History Search"

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView    *menu.View
	searchView  *search.View
	previewView *preview.View
	askView     *ask.View
	statsView   *stats.View

	currentView  messages.ViewType
	initialQuery string

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// The app opens on the search view.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		menuView:    menu.NewView(s),
		searchView:  search.NewView(s, nil, ports.Search),
		previewView: preview.NewView(s),
		askView:     ask.NewView(s, nil, ports.Chat),
		statsView:   stats.NewView(s, ports.Index),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.askView.WithContext(ctx)
	a.statsView.WithContext(ctx)
	return a
}

// WithInitialQuery runs query as soon as the program starts.
func (a *App) WithInitialQuery(query string) *App {
	a.initialQuery = query
	return a
}

// WithLimit sets how many results each search requests.
func (a *App) WithLimit(limit int) *App {
	a.searchView.WithLimit(limit)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle(WindowTitle),
		a.searchView.Init(),
	}
	if a.initialQuery != "" {
		cmds = append(cmds, a.searchView.Search(a.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ResultOpened:
		a.previewView.SetResult(msg.Result)
		a.currentView = messages.ViewPreview
		return a, nil

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.AnswerCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.StatsLoaded:
		a.statsView, cmd = a.statsView.Update(msg)
		a.err = msg.Err
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
	}

	return a, a.updateCurrent(msg)
}

// switchTo activates a view and returns its start command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewSearch:
		return a.searchView.Init()
	case messages.ViewAsk:
		return a.askView.Init()
	case messages.ViewStats:
		return a.statsView.Load()
	case messages.ViewMenu, messages.ViewPreview:
	}
	return nil
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewPreview:
		a.previewView, cmd = a.previewView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewStats:
		a.statsView, cmd = a.statsView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewPreview:
		return a.previewView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewStats:
		return a.statsView.View()
	default:
		return a.menuView.View()
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error reported by a service.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.previewView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.statsView.SetDimensions(width, height)
}
