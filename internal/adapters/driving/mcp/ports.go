package mcp

import (
	"github.com/gplanner/gplan/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Projects lists and opens projects.
	Projects driving.ProjectService

	// Board reads card inputs and adds notes.
	Board driving.BoardService

	// Documents reads outlines.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Projects == nil {
		return ErrMissingProjectService
	}
	// Board and Documents are optional; their tools report unavailable
	return nil
}
