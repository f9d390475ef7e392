// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/mdx-mcp/internal/config"
	"github.com/tejzpr/mdx-mcp/internal/tools"
	"gorm.io/gorm"
)

// ServerName is the name reported to MCP clients
const ServerName = "MDX"

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer *server.MCPServer
	config    *config.Config
	toolCtx   *tools.ToolContext
	logger    *slog.Logger
	toolNames []string
}

// NewMCPServer creates a new MCP server instance and registers its tools. db may be nil.
func NewMCPServer(cfg *config.Config, db *gorm.DB, logger *slog.Logger, version string) (*MCPServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}

	toolCtx, err := tools.NewToolContext(cfg, db, logger)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	srv := &MCPServer{
		mcpServer: mcpServer,
		config:    toolCtx.Config,
		toolCtx:   toolCtx,
		logger:    logger,
	}
	srv.registerTools()
	return srv, nil
}

// registerTools registers the container tools, plus search when the catalog is available
func (s *MCPServer) registerTools() {
	// mdx_validate: "Is this container sound?"
	s.addTool(tools.NewValidateTool(), tools.ValidateHandler(s.toolCtx))

	// mdx_inspect: "What is in this container?"
	s.addTool(tools.NewInspectTool(), tools.InspectHandler(s.toolCtx))

	// mdx_read: "Show me the content"
	s.addTool(tools.NewReadTool(), tools.ReadHandler(s.toolCtx))

	// mdx_history: list, create and restore versions
	s.addTool(tools.NewHistoryTool(), tools.HistoryHandler(s.toolCtx))

	// mdx_annotate: review comments and their status
	s.addTool(tools.NewAnnotateTool(), tools.AnnotateHandler(s.toolCtx))

	if s.toolCtx.HasCatalog() {
		// mdx_search: find containers across the catalog
		s.addTool(tools.NewSearchTool(), tools.SearchHandler(s.toolCtx))
	}
}

func (s *MCPServer) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.toolNames = append(s.toolNames, tool.Name)
}

// ToolNames returns the registered tool names in registration order
func (s *MCPServer) ToolNames() []string {
	return append([]string(nil), s.toolNames...)
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ToolContext returns the shared tool dependencies
func (s *MCPServer) ToolContext() *tools.ToolContext {
	return s.toolCtx
}
