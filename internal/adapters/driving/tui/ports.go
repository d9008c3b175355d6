// Package tui provides an interactive terminal user interface for gplan.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/gplanner/gplan/internal/core/ports/driving"
)

// WatchFunc blocks until ctx ends, calling onChange whenever the
// persisted store is changed by another process.
type WatchFunc func(ctx context.Context, onChange func()) error

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Projects lists, opens and saves projects.
	Projects driving.ProjectService

	// Board reads the whiteboard for the project overview.
	Board driving.BoardService

	// Documents reads the document tree for the project overview.
	Documents driving.DocumentService

	// Team reads members and todos for the project overview.
	Team driving.TeamService

	// Prototype starts the player.
	Prototype driving.PrototypeService

	// Settings remembers the last opened project.
	Settings driving.SettingsService

	// Watch enables live reload. Optional.
	Watch WatchFunc
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Projects == nil {
		return ErrMissingProjectService
	}
	if p.Prototype == nil {
		return ErrMissingPrototypeService
	}
	return nil
}
