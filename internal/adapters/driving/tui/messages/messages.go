// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/gplanner/gplan/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDashboard lists projects and summarises the open one.
	ViewDashboard ViewType = iota
	// ViewPlayer runs the UI prototype.
	ViewPlayer
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewPlayer:
		return "player"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Notice is a transient message for the status bar.
type Notice struct {
	Text string
}

// Quit signals the application should exit.
type Quit struct{}

// ProjectsLoaded carries the project list.
type ProjectsLoaded struct {
	Projects []domain.ProjectMeta
	ActiveID string
}

// ProjectOpened signals a project became the open one.
type ProjectOpened struct {
	Project domain.ProjectMeta
	Err     error
}

// ProjectCreated signals a project was added.
type ProjectCreated struct {
	Project domain.ProjectMeta
	Err     error
}

// ProjectDeleted signals a project was removed.
type ProjectDeleted struct {
	ID  string
	Err error
}

// Overview summarises the open project.
type Overview struct {
	Cards        int
	Connections  int
	Documents    int
	Members      int
	TodosOpen    int
	TodosTotal   int
	Pages        int
	StartPage    string
	RecentTitles []string
}

// OverviewLoaded carries the open project's summary.
type OverviewLoaded struct {
	Overview Overview
	Err      error
}

// PlayRequested asks the app to start the prototype player.
type PlayRequested struct{}

// PlayerStarted carries a fresh player.
type PlayerStarted struct {
	Player *domain.Player
	Err    error
}

// StoreChanged is sent when the store changed on disk.
type StoreChanged struct{}

// StoreReloaded is sent after a reload attempt.
type StoreReloaded struct {
	Err error
}

// SaveTick refreshes the save indicator.
type SaveTick struct{}

// SaveCompleted is sent after an explicit save.
type SaveCompleted struct {
	Err error
}
