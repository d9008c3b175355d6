package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
)

func TestExtractProjectID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid project URI", uri: "gplan://projects/p-123", expected: "p-123"},
		{name: "invalid prefix", uri: "file://projects/p-123", expected: ""},
		{name: "nested path", uri: "gplan://projects/p-123/docs", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProjectID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleProjectsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty list", func(t *testing.T) {
		server := newTestServer(t, newTestPorts(t))

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("gplan://projects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists projects with their URIs", func(t *testing.T) {
		ports := newTestPorts(t)
		server := newTestServer(t, ports)
		meta := createProject(t, ports, "Space Miner", false)

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("gplan://projects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "Space Miner")
		assert.Contains(t, result.Contents[0].Text, "gplan://projects/"+meta.ID)
	})
}

func TestServer_handleProjectResource(t *testing.T) {
	ctx := context.Background()

	t.Run("exports a closed project", func(t *testing.T) {
		ports := newTestPorts(t)
		server := newTestServer(t, ports)
		meta := createProject(t, ports, "Space Miner", false)

		result, err := server.handleProjectResource(ctx, makeReadResourceRequest("gplan://projects/"+meta.ID))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/yaml", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "Space Miner")
	})

	t.Run("exports the open project's board", func(t *testing.T) {
		ports := newTestPorts(t)
		server := newTestServer(t, ports)
		meta := createProject(t, ports, "Space Miner", true)
		_, err := ports.Board.AddNode(domain.NodeText, nil, "asteroid belt")
		require.NoError(t, err)

		result, err := server.handleProjectResource(ctx, makeReadResourceRequest("gplan://projects/"+meta.ID))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "asteroid belt")
	})

	t.Run("unknown project is not found", func(t *testing.T) {
		server := newTestServer(t, newTestPorts(t))

		_, err := server.handleProjectResource(ctx, makeReadResourceRequest("gplan://projects/missing"))

		require.Error(t, err)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server := newTestServer(t, newTestPorts(t))

		_, err := server.handleProjectResource(ctx, makeReadResourceRequest("gplan://invalid"))

		require.Error(t, err)
	})
}
