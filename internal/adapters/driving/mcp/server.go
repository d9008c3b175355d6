package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gplanner/gplan/internal/logger"
)

const (
	// defaultVersion is reported when no build version is supplied.
	defaultVersion = "dev"

	shutdownTimeout = 5 * time.Second
)

// Server exposes gplan projects to MCP clients over stdio or HTTP.
type Server struct {
	ports   *Ports
	server  *mcp.Server
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported to clients during initialisation.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, version: defaultVersion}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "gplan",
		Title:   "gplan game design planner",
		Version: s.version,
	}, &mcp.ServerOptions{
		Instructions: instructions(ports),
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients what the server can do with the ports it was
// given. Tools whose service is missing are still listed but fail.
func instructions(p *Ports) string {
	var b strings.Builder
	b.WriteString("gplan stores game design projects. Call list_projects first; ")
	b.WriteString("most tools take an optional project id or name and fall back to the open project.\n")
	if p.Board != nil {
		b.WriteString("Whiteboard: board_inputs reads the cards wired into a card, add_note drops a text card.\n")
	}
	if p.Documents != nil {
		b.WriteString("Documents: document_outline lists the headings of a design document.\n")
	}
	b.WriteString("Prototypes: evaluate_condition checks a condition such as \"hp > 0\" against variables.\n")
	b.WriteString("Resources: " + uriScheme + "projects lists projects, " +
		uriScheme + "projects/{projectId} returns one project as YAML.")
	return b.String()
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving %s over stdio", s.version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled. In-flight requests get shutdownTimeout to finish.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: http shutdown: %v", err)
		}
	}()

	logger.Debug("mcp: serving %s on %s", s.version, addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
