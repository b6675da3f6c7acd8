package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/omnidive/omnidive/internal/explorer"
	"github.com/omnidive/omnidive/internal/history"
)

// Version is set via ldflags at build time.
var Version = "dev"

// SearchHistory lists recent searches.
type SearchHistory interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]history.Entry, error)
}

// Server wraps an MCP server that exposes topic exploration tools.
type Server struct {
	shell   *explorer.Shell
	history SearchHistory
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. All tool calls share one shell; hist
// may be nil, in which case recent_searches reports that history is off.
func NewServer(shell *explorer.Shell, hist SearchHistory) *Server {
	s := &Server{
		shell:   shell,
		history: hist,
	}

	s.mcp = server.NewMCPServer(
		"omnidive",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(exploreTopicTool, s.handleExploreTopic)
	s.mcp.AddTool(recentSearchesTool, s.handleRecentSearches)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
