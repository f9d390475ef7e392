// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package container

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/markdown"
)

// FromMarkdown creates a document from markdown with optional YAML frontmatter.
// The title comes from frontmatter, then the first heading, then fallbackTitle.
func FromMarkdown(content, fallbackTitle string, options ...Option) (*Document, error) {
	fm, body, err := markdown.Parse(content)
	if err != nil {
		return nil, err
	}

	title := fm.Title
	if title == "" {
		title = markdown.FirstHeading(body)
	}
	if title == "" {
		title = fallbackTitle
	}

	opts := CreateOptions{
		Description: fm.Description,
		Language:    fm.Language,
		Version:     fm.Version,
		Keywords:    fm.AllKeywords(),
		Content:     body,
	}
	if _, err := uuid.Parse(fm.ID); err == nil {
		opts.ID = fm.ID
	}
	for _, a := range fm.Authors {
		opts.Authors = append(opts.Authors, manifest.Person{Name: a.Name, Email: a.Email, Role: a.Role})
	}
	if fm.License != "" {
		opts.License = &manifest.License{Type: fm.License}
	}

	doc, err := Create(title, opts, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create document from markdown: %w", err)
	}
	return doc, nil
}

// ExportMarkdown returns the content prefixed with frontmatter built from the manifest
func (d *Document) ExportMarkdown() (string, error) {
	meta := d.Manifest.Document
	fm := &markdown.Frontmatter{
		ID:          meta.ID,
		Title:       meta.Title,
		Description: meta.Description,
		Keywords:    meta.Keywords,
		Language:    meta.Language,
		Version:     meta.Version,
		Created:     string(meta.Created),
		Modified:    string(meta.Modified),
	}
	for _, a := range meta.Authors {
		fm.Authors = append(fm.Authors, markdown.Author{Name: a.Name, Email: a.Email, Role: a.Role})
	}
	if meta.License != nil {
		fm.License = meta.License.Type
	}
	return markdown.Render(fm, d.content)
}
