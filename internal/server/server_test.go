// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/mdx-mcp/internal/catalog"
	"github.com/tejzpr/mdx-mcp/internal/config"
)

func TestNewMCPServer_WithoutCatalog(t *testing.T) {
	srv, err := NewMCPServer(config.DefaultConfig(), nil, nil, "")
	require.NoError(t, err)
	assert.NotNil(t, srv.GetMCPServer())
	assert.Equal(t, []string{"mdx_validate", "mdx_inspect", "mdx_read", "mdx_history", "mdx_annotate"}, srv.ToolNames())
}

func TestNewMCPServer_WithCatalog(t *testing.T) {
	db, err := catalog.Open(&catalog.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.NoError(t, err)
	defer catalog.Close(db)

	srv, err := NewMCPServer(config.DefaultConfig(), db, nil, "1.2.3")
	require.NoError(t, err)
	assert.Contains(t, srv.ToolNames(), "mdx_search")

	mux := http.NewServeMux()
	NewHTTPServer(srv).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["documents"])
	assert.Len(t, body["tools"], 6)
}
