// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Author is a frontmatter author entry
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
	Role  string `yaml:"role,omitempty"`
}

// Frontmatter is the YAML header recognized on plain markdown files
type Frontmatter struct {
	ID          string   `yaml:"id,omitempty"`
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Authors     []Author `yaml:"authors,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Language    string   `yaml:"language,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	License     string   `yaml:"license,omitempty"`
	Created     string   `yaml:"created,omitempty"`
	Modified    string   `yaml:"modified,omitempty"`
}

// AllKeywords merges keywords and tags without duplicates
func (f *Frontmatter) AllKeywords() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range append(append([]string(nil), f.Keywords...), f.Tags...) {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Parse splits markdown into frontmatter and body.
// Content without a frontmatter block returns an empty Frontmatter.
func Parse(content string) (*Frontmatter, string, error) {
	raw, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, "", fmt.Errorf("failed to split frontmatter: %w", err)
	}

	var fm Frontmatter
	if raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
			return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	return &fm, strings.TrimLeft(body, "\n"), nil
}

// Render writes frontmatter followed by body
func Render(fm *Frontmatter, body string) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	buf.Write(data)
	buf.WriteString("---\n\n")

	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}

	return buf.String(), nil
}

// splitFrontmatter splits content into the YAML between --- delimiters and the rest
func splitFrontmatter(content string) (string, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(normalized, "---\n") {
		return "", content, nil
	}

	lines := strings.Split(normalized, "\n")
	closingIndex := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			closingIndex = i
			break
		}
	}

	if closingIndex == -1 {
		return "", content, fmt.Errorf("frontmatter not properly closed")
	}

	frontmatter := strings.Join(lines[1:closingIndex], "\n")

	body := ""
	if closingIndex+1 < len(lines) {
		body = strings.Join(lines[closingIndex+1:], "\n")
	}

	return frontmatter, body, nil
}
