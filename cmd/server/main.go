// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/tejzpr/mdx-mcp/internal/catalog"
	"github.com/tejzpr/mdx-mcp/internal/config"
	"github.com/tejzpr/mdx-mcp/internal/server"
	"github.com/tejzpr/mdx-mcp/pkg/scheduler"
	"gorm.io/gorm"
)

// Version is set at build time via ldflags (e.g. goreleaser -X main.Version={{.Version}}).
var Version string

func main() {
	_ = godotenv.Load()

	httpMode := flag.Bool("http", false, "Run in HTTP server mode (default: stdio for MCP)")
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", 0, "Server port (HTTP mode only)")
	withCatalog := flag.Bool("catalog", false, "Enable the catalog and the mdx_search tool")
	catalogDir := flag.String("catalog-dir", "", "Directory of containers to index")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "MDX MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s                 Start MCP server (stdio)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --http          Start MCP server over streamable HTTP with /health\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --catalog       Index catalog.directory and enable mdx_search\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MDX_<SECTION>_<KEY>   Override any config key, e.g. MDX_CATALOG_TYPE=postgres\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	// MCP stdio servers must only write JSON-RPC to stdout
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *withCatalog {
		cfg.Catalog.Enabled = true
	}
	if *catalogDir != "" {
		cfg.Catalog.Directory = *catalogDir
	}

	logger.Info("starting MDX MCP server", "version", Version, "http", *httpMode, "catalog", cfg.Catalog.Enabled)

	var db *gorm.DB
	if cfg.Catalog.Enabled {
		db, err = catalog.Open(&catalog.Config{
			Type:        cfg.Catalog.Type,
			SQLitePath:  cfg.Catalog.SQLitePath,
			PostgresDSN: cfg.Catalog.PostgresDSN,
		})
		if err != nil {
			logger.Error("failed to open catalog", "error", err)
			os.Exit(1)
		}
		defer catalog.Close(db)
		logger.Info("catalog connected", "type", cfg.Catalog.Type, "directory", cfg.Catalog.Directory)
	}

	mcpServer, err := server.NewMCPServer(cfg, db, logger, Version)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	logger.Info("MCP server ready", "tools", mcpServer.ToolNames())

	if *httpMode {
		runHTTPMode(cfg, db, mcpServer, logger)
		return
	}
	runStdioMode(cfg, db, mcpServer, logger)
}

// loadConfig returns the defaults alongside the error when the file cannot be used
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.DefaultConfig(), err
	}
	return cfg, nil
}

func runStdioMode(cfg *config.Config, db *gorm.DB, mcpServer *server.MCPServer, logger *slog.Logger) {
	if db != nil {
		tc := mcpServer.ToolContext()
		res, err := catalog.Index(context.Background(), db, cfg.Catalog.Directory, catalog.Options{
			Validator: tc.Validator,
			Logger:    logger,
		})
		if err != nil {
			logger.Warn("initial catalog index failed", "error", err)
		} else {
			logger.Info("catalog indexed", "processed", res.Processed, "errors", len(res.Errors))
		}
	}

	if err := mcpserver.ServeStdio(mcpServer.GetMCPServer()); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(cfg *config.Config, db *gorm.DB, mcpServer *server.MCPServer, logger *slog.Logger) {
	mux := http.NewServeMux()
	server.NewHTTPServer(mcpServer).RegisterRoutes(mux)

	if db != nil {
		sched := scheduler.NewMinuteScheduler(db, cfg.Catalog.Directory, cfg.Catalog.ReindexInterval,
			mcpServer.ToolContext().Validator, logger)
		sched.Start()
		defer sched.Stop()
		logger.Info("catalog scheduler started", "interval_minutes", cfg.Catalog.ReindexInterval)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}
