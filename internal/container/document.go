// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package container holds the in-memory document model and its ZIP codec.
//
// A Document is not safe for concurrent mutation. Separate documents share no state.
package container

import (
	"errors"
	"fmt"

	"github.com/tejzpr/mdx-mcp/internal/annotation"
	"github.com/tejzpr/mdx-mcp/internal/assets"
	"github.com/tejzpr/mdx-mcp/internal/history"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/markdown"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// DefaultCompressionLevel is the DEFLATE level used when none is configured
const DefaultCompressionLevel = 6

// Structural errors. Open and Save fail only with these or I/O errors.
var (
	ErrNotArchive        = errors.New("not a valid ZIP archive")
	ErrManifestMissing   = errors.New("manifest.json not found in archive")
	ErrManifestMalformed = errors.New("manifest.json is not valid JSON")
	ErrEntryPointMissing = errors.New("entry point not found in archive")
	ErrInvalidManifest   = errors.New("manifest failed validation")
	ErrDuplicateEntry    = errors.New("archive holds duplicate entry names")
	ErrUnsafeEntry       = errors.New("archive entry resolves outside the archive root")
)

// Config controls encoding and snapshot resolution
type Config struct {
	CompressionLevel  int
	ChecksumAlgorithm string
	References        history.ReferenceResolver
}

// Option customizes Config
type Option func(*Config)

// WithCompressionLevel sets the DEFLATE level, 0 (store) to 9
func WithCompressionLevel(level int) Option {
	return func(c *Config) { c.CompressionLevel = level }
}

// WithChecksumAlgorithm sets the algorithm used for new assets
func WithChecksumAlgorithm(algorithm string) Option {
	return func(c *Config) { c.ChecksumAlgorithm = algorithm }
}

// WithReferenceResolver sets the resolver for reference snapshots
func WithReferenceResolver(r history.ReferenceResolver) Option {
	return func(c *Config) { c.References = r }
}

func newConfig(opts []Option) (Config, error) {
	cfg := Config{
		CompressionLevel:  DefaultCompressionLevel,
		ChecksumAlgorithm: integrity.DefaultAlgorithm,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.CompressionLevel < 0 || cfg.CompressionLevel > 9 {
		return cfg, fmt.Errorf("compression level must be between 0 and 9, got %d", cfg.CompressionLevel)
	}
	if !integrity.Supported(cfg.ChecksumAlgorithm) {
		return cfg, fmt.Errorf("%w: %s", integrity.ErrUnsupportedAlgorithm, cfg.ChecksumAlgorithm)
	}
	return cfg, nil
}

// Document is a loaded container
type Document struct {
	Manifest    *manifest.Manifest
	Assets      *assets.Store
	History     *history.Log
	Annotations *annotation.Set

	content string
	config  Config
}

// CreateOptions are optional inputs to Create
type CreateOptions struct {
	ID          string
	Description string
	Authors     []manifest.Person
	Language    string
	Version     string
	Keywords    []string
	License     *manifest.License
	EntryPoint  string
	// Content is the initial markdown; a title heading is used when empty
	Content string
}

// Create builds a new document with a fresh manifest and empty collections
func Create(title string, opts CreateOptions, options ...Option) (*Document, error) {
	title = markdown.SanitizeTitle(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}

	m := manifest.New(title, manifest.Options{
		ID:          opts.ID,
		Description: opts.Description,
		Authors:     opts.Authors,
		Language:    opts.Language,
		Version:     opts.Version,
		EntryPoint:  opts.EntryPoint,
		License:     opts.License,
		Keywords:    opts.Keywords,
	})

	content := opts.Content
	if content == "" {
		content = fmt.Sprintf("# %s\n", title)
	}

	return &Document{
		Manifest:    m,
		Assets:      assets.NewStore(),
		History:     history.NewLog(),
		Annotations: annotation.NewSet(),
		content:     content,
		config:      cfg,
	}, nil
}

// Configure replaces codec options on an existing document
func (d *Document) Configure(options ...Option) error {
	cfg, err := newConfig(append([]Option{
		WithCompressionLevel(d.config.CompressionLevel),
		WithChecksumAlgorithm(d.config.ChecksumAlgorithm),
		WithReferenceResolver(d.config.References),
	}, options...))
	if err != nil {
		return err
	}
	d.config = cfg
	return nil
}

// Title returns the document title
func (d *Document) Title() string {
	return d.Manifest.Document.Title
}

// Content returns the markdown at the entry point
func (d *Document) Content() string {
	return d.content
}

// SetContent replaces the markdown at the entry point
func (d *Document) SetContent(content string) {
	d.content = content
	d.Manifest.Touch()
}

// SetTitle replaces the title
func (d *Document) SetTitle(title string) error {
	title = markdown.SanitizeTitle(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	d.Manifest.SetTitle(title)
	return nil
}

// SetDescription replaces the description
func (d *Document) SetDescription(description string) {
	d.Manifest.SetDescription(description)
}

// AddAuthor appends an author
func (d *Document) AddAuthor(p manifest.Person) {
	d.Manifest.AddAuthor(p)
}

// SetKeywords replaces the keywords
func (d *Document) SetKeywords(keywords []string) {
	d.Manifest.SetKeywords(keywords)
}

// Validate returns manifest issues without touching the archive
func (d *Document) Validate() []report.Issue {
	return d.Manifest.Validate()
}
