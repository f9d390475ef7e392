// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tejzpr/mdx-mcp/internal/config"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/git"
	"github.com/tejzpr/mdx-mcp/internal/locking"
	"github.com/tejzpr/mdx-mcp/internal/storage"
	"github.com/tejzpr/mdx-mcp/internal/validator"
	"gorm.io/gorm"
)

// ToolContext holds shared dependencies for all tools
// - Storage: reads and writes archives by location (local path or s3://bucket/key)
// - DB: catalog database, nil when the catalog is disabled
// - Locks: held around every read-modify-write of a location
type ToolContext struct {
	Config    *config.Config
	DB        *gorm.DB
	Storage   *storage.Router
	Validator *validator.Validator
	Locks     *locking.Locker
	Logger    *slog.Logger
}

// NewToolContext creates a tool context from configuration. db may be nil.
func NewToolContext(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*ToolContext, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	router, err := storage.NewConfiguredRouter(storage.S3Config(cfg.Storage.S3))
	if err != nil {
		return nil, fmt.Errorf("failed to configure storage: %w", err)
	}
	return &ToolContext{
		Config:  cfg,
		DB:      db,
		Storage: router,
		Validator: validator.New(validator.Options{
			MaxAssetBytes: cfg.Validator.MaxAssetBytes,
			MaxPathLength: cfg.Validator.MaxPathLength,
		}),
		Locks:  locking.NewLocker(),
		Logger: logger,
	}, nil
}

// HasCatalog returns true if the catalog database is available
func (tc *ToolContext) HasCatalog() bool {
	return tc.DB != nil
}

// containerOptions returns codec options from configuration
func (tc *ToolContext) containerOptions() []container.Option {
	return []container.Option{
		container.WithCompressionLevel(tc.Config.Codec.CompressionLevel),
		container.WithChecksumAlgorithm(tc.Config.Codec.ChecksumAlgorithm),
	}
}

// readArchive reads raw archive bytes from a location
func (tc *ToolContext) readArchive(ctx context.Context, location string) ([]byte, error) {
	data, err := tc.Storage.Read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// openDocument loads a container. repoPath, when set, resolves reference snapshots from that git repository.
func (tc *ToolContext) openDocument(ctx context.Context, location, repoPath string) (*container.Document, error) {
	data, err := tc.readArchive(ctx, location)
	if err != nil {
		return nil, err
	}
	opts := tc.containerOptions()
	if repoPath != "" {
		resolver, err := git.NewSnapshotResolver(repoPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, container.WithReferenceResolver(resolver))
	}
	doc, err := container.Open(ctx, data, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return doc, nil
}

// saveDocument encodes doc and writes it back to location
func (tc *ToolContext) saveDocument(ctx context.Context, location string, doc *container.Document) error {
	data, err := doc.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", location, err)
	}
	if err := tc.Storage.Write(ctx, location, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	tc.Logger.Debug("container saved", "location", location, "bytes", len(data))
	return nil
}

// lockFor serializes writers of location. Read-only actions get a no-op release.
func (tc *ToolContext) lockFor(ctx context.Context, location string, write bool) (func(), error) {
	if !write {
		return func() {}, nil
	}
	return tc.Locks.Acquire(ctx, location)
}
