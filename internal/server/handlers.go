// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/mdx-mcp/internal/catalog"
)

// HTTPServer handles HTTP routes
type HTTPServer struct {
	mcpServer *MCPServer
	transport *server.StreamableHTTPServer
}

// NewHTTPServer creates a new HTTP server that serves MCP over streamable HTTP
func NewHTTPServer(mcpServer *MCPServer) *HTTPServer {
	return &HTTPServer{
		mcpServer: mcpServer,
		transport: server.NewStreamableHTTPServer(mcpServer.GetMCPServer()),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HandleHealth)
	mux.Handle("/mcp", h.transport)
}

// HandleHealth reports server status, registered tools and catalog size
func (h *HTTPServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"tools":  h.mcpServer.ToolNames(),
	}

	toolCtx := h.mcpServer.ToolContext()
	if toolCtx.HasCatalog() {
		var count int64
		if err := toolCtx.DB.Model(&catalog.Document{}).Count(&count).Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}
		status["documents"] = count
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
