package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/adapters/driven/storage/memory"
	"github.com/gplanner/gplan/internal/adapters/driving/tui/messages"
	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/services"
)

func newTestPorts(t *testing.T) *Ports {
	t.Helper()
	ws := services.NewWorkspace(memory.NewStore(), services.WithAutosaveDelay(time.Hour))
	require.NoError(t, ws.Load(context.Background()))
	t.Cleanup(func() { _ = ws.Close(context.Background()) })
	return &Ports{
		Projects:  ws,
		Board:     services.NewBoardService(ws, domain.DefaultSizeLimits()),
		Team:      services.NewTeamService(ws),
		Prototype: services.NewPrototypeService(ws),
		Settings:  services.NewSettingsService(memory.NewConfigStore(), nil),
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	require.Same(t, app, model)
	return cmd
}

func TestNewApp_ValidatesPorts(t *testing.T) {
	_, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingProjectService)
}

func TestApp_InitialState(t *testing.T) {
	app, err := NewApp(newTestPorts(t))
	require.NoError(t, err)

	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())

	update(t, app, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "gplan")
}

func TestApp_QuitKeys(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	cmd := update(t, app, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cmd = update(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	update(t, app, runes("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "click the numbered component")

	update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
}

func TestApp_NamingPromptSwallowsQuit(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	update(t, app, runes("n"))
	update(t, app, runes("q"))

	assert.True(t, app.dashboardView.Capturing())
	assert.Contains(t, app.View(), "Project name")
}

func TestApp_ProjectOpenedRemembersProject(t *testing.T) {
	ports := newTestPorts(t)
	app := newTestApp(t, ports)
	meta, err := ports.Projects.Create("Arena")
	require.NoError(t, err)

	update(t, app, messages.ProjectOpened{Project: meta})

	assert.Contains(t, app.View(), "Arena")
	settings, err := ports.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, meta.ID, settings.ActiveProjectID)
}

func TestApp_PlayFlow(t *testing.T) {
	ports := newTestPorts(t)
	app := newTestApp(t, ports)
	meta, err := ports.Projects.Create("Game")
	require.NoError(t, err)
	require.NoError(t, ports.Projects.Open(context.Background(), meta.ID))
	page, err := ports.Prototype.AddPage("pc")
	require.NoError(t, err)

	cmd := update(t, app, messages.PlayRequested{})
	require.NotNil(t, cmd)
	started, ok := cmd().(messages.PlayerStarted)
	require.True(t, ok)
	require.NoError(t, started.Err)

	update(t, app, started)
	assert.Equal(t, messages.ViewPlayer, app.CurrentView())
	assert.Contains(t, app.View(), page.Name)

	// q does not quit while playing
	cmd = update(t, app, runes("q"))
	assert.Nil(t, cmd)

	cmd = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	update(t, app, cmd())
	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
}

func TestApp_PlayErrorShown(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	update(t, app, messages.PlayerStarted{Err: domain.ErrNoActiveProject})

	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrNoActiveProject)
	assert.Contains(t, app.View(), "no active project")
}

func TestApp_SaveTickRefreshesIndicator(t *testing.T) {
	ports := newTestPorts(t)
	app := newTestApp(t, ports)
	meta, err := ports.Projects.Create("Game")
	require.NoError(t, err)
	update(t, app, messages.ProjectOpened{Project: meta})

	cmd := update(t, app, messages.SaveTick{})

	assert.NotNil(t, cmd)
	assert.Contains(t, app.View(), "unsaved")

	update(t, app, messages.SaveCompleted{})
	assert.Contains(t, app.View(), "Saved")
}

func TestApp_SaveFailureShown(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	update(t, app, messages.SaveCompleted{Err: errors.New("disk full")})

	assert.Contains(t, app.View(), "disk full")
}

func TestApp_LiveReload(t *testing.T) {
	ports := newTestPorts(t)
	ports.Watch = func(ctx context.Context, onChange func()) error {
		onChange()
		<-ctx.Done()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app := newTestApp(t, ports).WithContext(ctx)

	cmd := app.startWatch()
	require.NotNil(t, cmd)
	assert.Equal(t, messages.StoreChanged{}, cmd())

	cmd = update(t, app, messages.StoreChanged{})
	assert.NotNil(t, cmd)

	cmd = update(t, app, messages.StoreReloaded{})
	assert.NotNil(t, cmd)
	assert.Contains(t, app.View(), "Reloaded external changes")
}

func TestApp_WaitForChangeStopsWithContext(t *testing.T) {
	ports := newTestPorts(t)
	ports.Watch = func(ctx context.Context, _ func()) error {
		<-ctx.Done()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	app := newTestApp(t, ports).WithContext(ctx)

	cmd := app.startWatch()
	cancel()

	assert.Nil(t, cmd())
}

func TestApp_NoWatcher(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	assert.Nil(t, app.startWatch())
}

func TestApp_ReloadErrorShown(t *testing.T) {
	app := newTestApp(t, newTestPorts(t))

	update(t, app, messages.StoreReloaded{Err: errors.New("bad json")})

	assert.Contains(t, app.View(), "bad json")
}
