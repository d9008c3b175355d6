package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gplanner/gplan/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Assistants can list projects, read the text feeding a whiteboard card,
outline design documents, check UI prototype conditions and add notes
to the board. Each project is also readable as a resource at
gplan://projects/{id}.

By default, the server communicates over stdio using JSON-RPC. Use
--port to start an HTTP server instead, for MCP Inspector or remote
access.

Examples:
  # Stdio mode (default)
  gplan mcp serve

  # HTTP mode
  gplan mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "gplan": {
        "command": "/path/to/gplan",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Projects:  projectService,
		Board:     boardService,
		Documents: documentService,
	}
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if projectFlag != "" {
		if _, err := useProject(cmd); err != nil {
			return err
		}
	}

	server, err := mcp.NewServer(mcpPorts(), mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
