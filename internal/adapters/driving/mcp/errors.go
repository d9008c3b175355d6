// Package mcp provides an MCP (Model Context Protocol) server adapter for gplan.
// It lets AI assistants read a project's board and documents, check UI mock
// conditions and drop notes on the whiteboard.
package mcp

import "errors"

// ErrMissingProjectService is returned when the project service is not provided.
var ErrMissingProjectService = errors.New("mcp: project service is required")

// ErrToolUnavailable is returned when a tool's backing service is not configured.
var ErrToolUnavailable = errors.New("mcp: tool not available")
