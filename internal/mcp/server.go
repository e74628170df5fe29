package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/campusmap/internal/directory"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes read-only campus directory tools.
type Server struct {
	dir *directory.Directory
	mcp *server.MCPServer
}

// NewServer creates a new MCP server over dir.
func NewServer(dir *directory.Directory) *Server {
	s := &Server{dir: dir}

	s.mcp = server.NewMCPServer(
		"campusmap",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(findLocationTool, s.handleFindLocation)
	s.mcp.AddTool(listCategoriesTool, s.handleListCategories)
	s.mcp.AddTool(locationsInCategoryTool, s.handleLocationsInCategory)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
