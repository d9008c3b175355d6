package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gplanner/gplan/internal/adapters/driving/tui/components/status"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/keymap"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/messages"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/styles"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/views/dashboard"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/views/player"
	"github.com/gplanner/gplan/internal/logger"
)

// saveTickInterval is how often the save indicator is refreshed.
const saveTickInterval = 500 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	dashboardView *dashboard.View
	playerView    *player.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// changes receives a value whenever the store changes on disk.
	changes   chan struct{}
	watchOnce sync.Once

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetBindings(km.DashboardHelp())

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		dashboardView: dashboard.NewView(s, dashboard.Services{
			Projects:  ports.Projects,
			Board:     ports.Board,
			Documents: ports.Documents,
			Team:      ports.Team,
			Prototype: ports.Prototype,
		}),
		playerView:  player.NewView(s),
		statusBar:   bar,
		currentView: messages.ViewDashboard,
		changes:     make(chan struct{}, 1),
	}, nil
}

// WithContext sets the context for the app. Cancelling it stops the
// store watcher.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("gplan"),
		a.dashboardView.Init(),
		saveTick(),
		a.startWatch(),
	)
}

func saveTick() tea.Cmd {
	return tea.Tick(saveTickInterval, func(time.Time) tea.Msg {
		return messages.SaveTick{}
	})
}

// startWatch launches the store watcher once and returns a command waiting
// for its first change.
func (a *App) startWatch() tea.Cmd {
	if a.ports.Watch == nil {
		return nil
	}
	a.watchOnce.Do(func() {
		go func() {
			err := a.ports.Watch(a.ctx, func() {
				select {
				case a.changes <- struct{}{}:
				default:
				}
			})
			if err != nil && a.ctx.Err() == nil {
				logger.Warn("store watcher stopped: %v", err)
			}
		}()
	})
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.changes:
			return messages.StoreChanged{}
		case <-a.ctx.Done():
			return nil
		}
	}
}

func (a *App) reload() tea.Cmd {
	projects := a.ports.Projects
	ctx := a.ctx
	return func() tea.Msg {
		return messages.StoreReloaded{Err: projects.Reload(ctx)}
	}
}

func (a *App) play() tea.Cmd {
	prototype := a.ports.Prototype
	return func() tea.Msg {
		p, err := prototype.Play()
		return messages.PlayerStarted{Player: p, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SaveTick:
		a.statusBar.SetSaveStatus(a.ports.Projects.Status())
		return a, saveTick()

	case messages.SaveCompleted:
		a.statusBar.SetSaveStatus(a.ports.Projects.Status())
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.notice("Saved")
		}
		return a, nil

	case messages.StoreChanged:
		logger.Debug("store changed on disk, reloading")
		return a, tea.Batch(a.reload(), a.waitForChange())

	case messages.StoreReloaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.notice("Reloaded external changes")
		return a, a.dashboardView.LoadProjects()

	case messages.ProjectsLoaded:
		a.statusBar.SetProject("")
		for _, p := range msg.Projects {
			if p.ID == msg.ActiveID {
				a.statusBar.SetProject(p.Name)
			}
		}

	case messages.ProjectOpened:
		if msg.Err == nil {
			a.statusBar.SetProject(msg.Project.Name)
			a.rememberProject(msg.Project.ID)
		}

	case messages.ProjectDeleted:
		if msg.Err == nil && msg.ID == a.dashboardView.ActiveID() {
			a.statusBar.SetProject("")
			a.rememberProject("")
		}

	case messages.PlayRequested:
		return a, a.play()

	case messages.PlayerStarted:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.playerView.SetPlayer(msg.Player)
		a.switchTo(messages.ViewPlayer)
		return a, nil

	case messages.ViewChanged:
		a.switchTo(msg.View)
		return a, nil

	case messages.Notice:
		a.notice(msg.Text)
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.dashboardView, cmd = a.dashboardView.Update(msg)
	if err := a.dashboardView.Err(); err != nil {
		a.err = err
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	a.statusBar.Clear()

	if a.currentView == messages.ViewDashboard && a.dashboardView.Capturing() {
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		return a, cmd
	}

	switch {
	case keymap.Matches(msg.String(), a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.switchTo(messages.ViewDashboard)
		} else {
			a.switchTo(messages.ViewHelp)
		}
		return a, nil
	case msg.String() == "q" && a.currentView != messages.ViewPlayer:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewPlayer:
		a.playerView, cmd = a.playerView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.switchTo(messages.ViewDashboard)
		}
	case messages.ViewDashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		a.err = a.dashboardView.Err()
	}
	return a, cmd
}

func (a *App) switchTo(v messages.ViewType) {
	a.currentView = v
	switch v {
	case messages.ViewPlayer:
		a.statusBar.SetBindings(a.keymap.PlayerHelp())
	case messages.ViewHelp:
		a.statusBar.SetBindings([]key.Binding{a.keymap.Back, a.keymap.Quit})
	case messages.ViewDashboard:
		a.statusBar.SetBindings(a.keymap.DashboardHelp())
	}
}

func (a *App) rememberProject(id string) {
	if a.ports.Settings == nil {
		return
	}
	if err := a.ports.Settings.SetActiveProject(id); err != nil {
		logger.Warn("remember project: %v", err)
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

func (a *App) notice(text string) {
	a.statusBar.SetState(status.StateNotice)
	a.statusBar.SetMessage(text)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewPlayer:
		body = a.playerView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.dashboardView.View()
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, row := range a.keymap.FullHelp() {
		for _, k := range row {
			h := k.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("Player:\n")
	b.WriteString("  1-9        click the numbered component\n")
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.dashboardView.SetDimensions(width, height-1)
	a.playerView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
