// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package manifest models manifest.json, the root metadata record of a container.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// FormatVersion is the container format version written by this package
const FormatVersion = "1.1.0"

// Well-known archive paths
const (
	FileName                   = "manifest.json"
	DefaultEntryPoint          = "document.md"
	DefaultVersionsFile        = "history/versions.json"
	DefaultSnapshotsDirectory  = "history/snapshots"
	DefaultAnnotationsFile     = "annotations/annotations.json"
	DefaultEncoding            = "UTF-8"
	DefaultMarkdownVariant     = "CommonMark"
	DefaultDocumentVersion     = "1.0.0"
	DefaultLanguage            = "en-US"
	DefaultSyntaxHighlighting  = "github"
	DefaultTableOfContentDepth = 3
)

// Manifest is the aggregate root of a container's metadata
type Manifest struct {
	MdxVersion    string                 `json:"mdx_version"`
	Document      Document               `json:"document"`
	Content       ContentConfig          `json:"content"`
	Assets        Inventory              `json:"assets"`
	Styles        *Styles                `json:"styles,omitempty"`
	Rendering     *Rendering             `json:"rendering,omitempty"`
	Interactivity *Interactivity         `json:"interactivity,omitempty"`
	Collaboration *Collaboration         `json:"collaboration,omitempty"`
	History       *HistoryConfig         `json:"history,omitempty"`
	Security      *Security              `json:"security,omitempty"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
	Custom        map[string]interface{} `json:"custom,omitempty"`
}

// Document holds descriptive metadata
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Description  string    `json:"description,omitempty"`
	Authors      []Person  `json:"authors,omitempty"`
	Contributors []Person  `json:"contributors,omitempty"`
	Created      Timestamp `json:"created"`
	Modified     Timestamp `json:"modified"`
	Published    Timestamp `json:"published,omitempty"`
	Version      string    `json:"version,omitempty"`
	Language     string    `json:"language,omitempty"`
	License      *License  `json:"license,omitempty"`
	Keywords     []string  `json:"keywords,omitempty"`
	Category     string    `json:"category,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	CoverImage   string    `json:"cover_image,omitempty"`
}

// Person is an author or contributor
type Person struct {
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty"`
	Role         string `json:"role,omitempty" yaml:"role,omitempty"`
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
}

// License describes the document license
type License struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// ContentConfig describes the markdown entry point
type ContentConfig struct {
	EntryPoint      string   `json:"entry_point"`
	Encoding        string   `json:"encoding,omitempty"`
	MarkdownVariant string   `json:"markdown_variant,omitempty"`
	MarkdownVersion string   `json:"markdown_version,omitempty"`
	Extensions      []string `json:"extensions,omitempty"`
	AdditionalFiles []string `json:"additional_files,omitempty"`
}

// Styles references stylesheets stored under styles/
type Styles struct {
	Theme              string            `json:"theme,omitempty"`
	SyntaxHighlighting string            `json:"syntax_highlighting,omitempty"`
	Custom             []string          `json:"custom,omitempty"`
	AlignmentClasses   map[string]string `json:"alignment_classes,omitempty"`
}

// Rendering holds renderer hints
type Rendering struct {
	MathRenderer    string           `json:"math_renderer,omitempty"`
	TableOfContents *TableOfContents `json:"table_of_contents,omitempty"`
	Attributes      *Attributes      `json:"attributes,omitempty"`
}

// TableOfContents configures generated tables of contents
type TableOfContents struct {
	Enabled bool `json:"enabled"`
	Depth   int  `json:"depth,omitempty"`
}

// Attributes configures markdown attribute syntax
type Attributes struct {
	Enabled           bool `json:"enabled"`
	AllowInlineStyles bool `json:"allow_inline_styles"`
}

// Interactivity declares interactive features a viewer may enable
type Interactivity struct {
	Enabled        bool     `json:"enabled"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	Components     []string `json:"components,omitempty"`
}

// Collaboration configures annotations and change tracking
type Collaboration struct {
	AllowAnnotations bool   `json:"allow_annotations"`
	TrackChanges     bool   `json:"track_changes"`
	AnnotationsFile  string `json:"annotations_file,omitempty"`
}

// HistoryConfig locates the version history side-files
type HistoryConfig struct {
	Enabled            bool   `json:"enabled"`
	VersionsFile       string `json:"versions_file,omitempty"`
	SnapshotsDirectory string `json:"snapshots_directory,omitempty"`
}

// Security restricts what a renderer may execute or fetch
type Security struct {
	AllowScripts        bool     `json:"allow_scripts"`
	AllowExternalAssets bool     `json:"allow_external_assets"`
	ContentSecurity     string   `json:"content_security_policy,omitempty"`
	TrustedOrigins      []string `json:"trusted_origins,omitempty"`
}

// Options customizes a new manifest
type Options struct {
	ID          string
	Description string
	Authors     []Person
	Language    string
	Version     string
	EntryPoint  string
	License     *License
	Keywords    []string
}

// New creates a manifest with generated id and timestamps
func New(title string, opts Options) *Manifest {
	now := Now()

	m := &Manifest{
		MdxVersion: FormatVersion,
		Document: Document{
			ID:          opts.ID,
			Title:       title,
			Description: opts.Description,
			Authors:     opts.Authors,
			Created:     now,
			Modified:    now,
			Version:     opts.Version,
			Language:    opts.Language,
			License:     opts.License,
			Keywords:    opts.Keywords,
		},
		Content: ContentConfig{
			EntryPoint:      opts.EntryPoint,
			Encoding:        DefaultEncoding,
			MarkdownVariant: DefaultMarkdownVariant,
		},
	}

	if m.Document.ID == "" {
		m.Document.ID = uuid.NewString()
	}
	if m.Document.Version == "" {
		m.Document.Version = DefaultDocumentVersion
	}
	if m.Document.Language == "" {
		m.Document.Language = DefaultLanguage
	}
	if m.Content.EntryPoint == "" {
		m.Content.EntryPoint = DefaultEntryPoint
	}

	return m
}

// Parse decodes manifest.json
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// JSON encodes the manifest pretty-printed with two-space indentation
func (m *Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// EntryPoint returns the configured entry point or the default
func (m *Manifest) EntryPoint() string {
	if m.Content.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return m.Content.EntryPoint
}

// VersionsFile returns the versions.json path from the history section or the default
func (m *Manifest) VersionsFile() string {
	if m.History != nil && m.History.VersionsFile != "" {
		return m.History.VersionsFile
	}
	return DefaultVersionsFile
}

// SnapshotsDirectory returns the snapshot directory without trailing slash
func (m *Manifest) SnapshotsDirectory() string {
	if m.History != nil && m.History.SnapshotsDirectory != "" {
		return m.History.SnapshotsDirectory
	}
	return DefaultSnapshotsDirectory
}

// AnnotationsFile returns the annotations.json path
func (m *Manifest) AnnotationsFile() string {
	if m.Collaboration != nil && m.Collaboration.AnnotationsFile != "" {
		return m.Collaboration.AnnotationsFile
	}
	return DefaultAnnotationsFile
}

// AllowsScripts reports whether the security section permits scripts
func (m *Manifest) AllowsScripts() bool {
	return m.Security != nil && m.Security.AllowScripts
}

// touch stamps document.modified. Every mutator ends with it.
func (m *Manifest) touch() {
	now := Now()
	if now.Before(m.Document.Created) {
		now = m.Document.Created
	}
	m.Document.Modified = now
}

// Touch records a change made outside the manifest, such as new content
func (m *Manifest) Touch() {
	m.touch()
}

// SetTitle replaces the document title
func (m *Manifest) SetTitle(title string) {
	m.Document.Title = title
	m.touch()
}

// SetDescription replaces the document description
func (m *Manifest) SetDescription(description string) {
	m.Document.Description = description
	m.touch()
}

// SetVersion sets the document version string
func (m *Manifest) SetVersion(version string) {
	m.Document.Version = version
	m.touch()
}

// SetLanguage sets the BCP-47 language tag
func (m *Manifest) SetLanguage(language string) {
	m.Document.Language = language
	m.touch()
}

// SetKeywords replaces the keyword list
func (m *Manifest) SetKeywords(keywords []string) {
	m.Document.Keywords = append([]string(nil), keywords...)
	m.touch()
}

// SetLicense replaces the license
func (m *Manifest) SetLicense(license *License) {
	m.Document.License = license
	m.touch()
}

// SetCoverImage sets the cover image reference
func (m *Manifest) SetCoverImage(path string) {
	m.Document.CoverImage = path
	m.touch()
}

// SetPublished stamps the publication timestamp
func (m *Manifest) SetPublished(ts Timestamp) {
	m.Document.Published = ts
	m.touch()
}

// AddAuthor appends an author
func (m *Manifest) AddAuthor(p Person) {
	m.Document.Authors = append(m.Document.Authors, p)
	m.touch()
}

// AddContributor appends a contributor
func (m *Manifest) AddContributor(p Person) {
	m.Document.Contributors = append(m.Document.Contributors, p)
	m.touch()
}

// SetTheme points styles.theme at a stylesheet path
func (m *Manifest) SetTheme(path string) {
	if m.Styles == nil {
		m.Styles = &Styles{}
	}
	m.Styles.Theme = path
	m.touch()
}

// AddCustomStyle appends a stylesheet path to styles.custom
func (m *Manifest) AddCustomStyle(path string) {
	if m.Styles == nil {
		m.Styles = &Styles{}
	}
	for _, existing := range m.Styles.Custom {
		if existing == path {
			m.touch()
			return
		}
	}
	m.Styles.Custom = append(m.Styles.Custom, path)
	m.touch()
}

// EnableHistory turns on the history section with default paths
func (m *Manifest) EnableHistory() {
	if m.History == nil {
		m.History = &HistoryConfig{}
	}
	m.History.Enabled = true
	if m.History.VersionsFile == "" {
		m.History.VersionsFile = DefaultVersionsFile
	}
	if m.History.SnapshotsDirectory == "" {
		m.History.SnapshotsDirectory = DefaultSnapshotsDirectory
	}
	m.touch()
}

// EnableCollaboration turns on annotations
func (m *Manifest) EnableCollaboration() {
	if m.Collaboration == nil {
		m.Collaboration = &Collaboration{}
	}
	m.Collaboration.AllowAnnotations = true
	m.touch()
}

// SetSecurity replaces the security section
func (m *Manifest) SetSecurity(s *Security) {
	m.Security = s
	m.touch()
}

// SetCustom stores a value under custom.<key>
func (m *Manifest) SetCustom(key string, value interface{}) {
	if m.Custom == nil {
		m.Custom = make(map[string]interface{})
	}
	m.Custom[key] = value
	m.touch()
}
