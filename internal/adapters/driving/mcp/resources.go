package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gplanner/gplan/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for gplan resources.
	uriScheme = "gplan://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "projects",
		Name:        "projects",
		Description: "List of all game design projects",
		MIMEType:    "application/json",
	}, s.handleProjectsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}",
		Name:        "project-export",
		Description: "A readable snapshot of a whole project: board, team, documents and UI mock",
		MIMEType:    "application/yaml",
	}, s.handleProjectResource)
}

// handleProjectsResource returns the project list.
func (s *Server) handleProjectsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type projectInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URI  string `json:"uri"`
	}

	list := s.ports.Projects.List()
	infos := make([]projectInfo, len(list))
	for i, p := range list {
		infos[i] = projectInfo{ID: p.ID, Name: p.Name, URI: uriScheme + "projects/" + p.ID}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling projects: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleProjectResource returns one project's export.
func (s *Server) handleProjectResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractProjectID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var buf bytes.Buffer
	if err := s.ports.Projects.Export(id, &buf); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("exporting project: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/yaml",
			Text:     buf.String(),
		}},
	}, nil
}

// extractProjectID extracts the project ID from a URI like gplan://projects/{projectId}.
func extractProjectID(uri string) string {
	const prefix = uriScheme + "projects/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
