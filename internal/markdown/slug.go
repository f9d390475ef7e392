// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package markdown

import (
	"regexp"
	"strings"
)

var (
	// slugRegex matches characters that should be dropped from slugs
	slugRegex = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multiSpaceRegex matches runs of spaces and dashes
	multiSpaceRegex = regexp.MustCompile(`[\s-]+`)
	// controlRegex matches control characters
	controlRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// Slug creates a lowercase dash-separated file name stem from a title
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = slugRegex.ReplaceAllString(slug, "")
	slug = multiSpaceRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "document"
	}
	return slug
}

// SanitizeTitle trims whitespace and removes control characters
func SanitizeTitle(title string) string {
	return controlRegex.ReplaceAllString(strings.TrimSpace(title), "")
}
