// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cli implements the mdx command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/catalog"
	"github.com/tejzpr/mdx-mcp/internal/config"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/git"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/storage"
	"github.com/tejzpr/mdx-mcp/internal/validator"
	"gorm.io/gorm"
)

// ErrInvalid is returned by validate when a container has errors and --no-exit is not set.
// The report has already been printed, so callers only need the exit code.
var ErrInvalid = errors.New("validation failed")

// app holds state shared by all subcommands, populated before any command runs
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	storage *storage.Router
}

// NewRootCmd creates the root mdx command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "mdx",
		Short:             "mdx - create, validate and inspect MDX document containers",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default ~/.mdx/configs/config.json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newCreateCmd(a),
		newValidateCmd(a),
		newInfoCmd(a),
		newExtractCmd(a),
		newMarkdownCmd(a),
		newAddAssetCmd(a),
		newRemoveAssetCmd(a),
		newVersionCmd(a),
		newAnnotateCmd(a),
		newRenderCmd(a),
		newExportGitCmd(a),
		newIndexCmd(a),
		newSearchCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFromPath(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	a.logger = a.cfg.Log.NewLogger(cmd.ErrOrStderr())

	a.storage, err = storage.NewConfiguredRouter(storage.S3Config(a.cfg.Storage.S3))
	if err != nil {
		return fmt.Errorf("failed to configure storage: %w", err)
	}
	return nil
}

func (a *app) containerOptions() []container.Option {
	return []container.Option{
		container.WithCompressionLevel(a.cfg.Codec.CompressionLevel),
		container.WithChecksumAlgorithm(a.cfg.Codec.ChecksumAlgorithm),
	}
}

func (a *app) validator() *validator.Validator {
	return validator.New(validator.Options{
		MaxAssetBytes: a.cfg.Validator.MaxAssetBytes,
		MaxPathLength: a.cfg.Validator.MaxPathLength,
	})
}

// open loads a container from a local path or s3:// location. repoPath, when set,
// resolves reference snapshots from that git repository.
func (a *app) open(ctx context.Context, location, repoPath string) (*container.Document, error) {
	data, err := a.storage.Read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	opts := a.containerOptions()
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

// save encodes doc and writes it to location
func (a *app) save(ctx context.Context, location string, doc *container.Document) error {
	data, err := doc.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", location, err)
	}
	if err := a.storage.Write(ctx, location, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	a.logger.Debug("container saved", "location", location, "bytes", len(data))
	return nil
}

func (a *app) openCatalog() (*gorm.DB, error) {
	return catalog.Open(&catalog.Config{
		Type:        a.cfg.Catalog.Type,
		SQLitePath:  a.cfg.Catalog.SQLitePath,
		PostgresDSN: a.cfg.Catalog.PostgresDSN,
	})
}

// parsePerson parses "Name" or "Name <email>"
func parsePerson(s string) manifest.Person {
	s = strings.TrimSpace(s)
	if open := strings.LastIndex(s, "<"); open >= 0 && strings.HasSuffix(s, ">") {
		return manifest.Person{
			Name:  strings.TrimSpace(s[:open]),
			Email: strings.TrimSpace(s[open+1 : len(s)-1]),
		}
	}
	return manifest.Person{Name: s}
}
