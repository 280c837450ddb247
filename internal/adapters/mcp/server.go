// Package mcp exposes document search and phrase suggestions as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

const (
	ServerName    = "document-search-portal"
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the search use case.
type Server struct {
	mcp    *server.MCPServer
	search ports.DocumentSearcher
}

func NewServer(search ports.DocumentSearcher) *Server {
	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		search: search,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool(), s.handleSearchDocuments)
	s.mcp.AddTool(suggestPhrasesTool(), s.handleSuggestPhrases)
}
