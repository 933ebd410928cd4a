package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
)

// Server wraps an MCP server exposing a deconz Client's operations as tools.
type Server struct {
	mcpServer *server.MCPServer
	client    *deconz.Client
}

// NewServer creates a new MCP server over client.
func NewServer(client *deconz.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = server.NewMCPServer(
		"deconz-sp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
