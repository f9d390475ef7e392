// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package assetpath

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// controlRegex matches control characters that never belong in archive paths
var controlRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)

// Sanitize normalizes a caller-supplied filename into a safe relative archive path.
// Backslashes become forward slashes, "." and ".." segments are dropped,
// leading slashes are removed and empty segments collapse.
func Sanitize(name string) string {
	name = controlRegex.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "\\", "/")

	parts := strings.Split(name, "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." || part == ".." {
			continue
		}
		kept = append(kept, part)
	}

	return strings.Join(kept, "/")
}

// Build returns the archive path assets/<category>/<sanitized-name>
func Build(category Category, name string) (string, error) {
	if !category.IsValid() {
		return "", fmt.Errorf("unknown asset category: %s", category)
	}

	clean := Sanitize(name)
	if clean == "" {
		return "", fmt.Errorf("filename %q is empty after sanitization", name)
	}

	return category.Dir() + clean, nil
}

// HasCategoryPrefix reports whether p starts with assets/<category>/
func HasCategoryPrefix(p string, category Category) bool {
	return strings.HasPrefix(p, category.Dir())
}

// EscapesRoot reports whether an archive entry name is absolute or climbs
// above the archive root once cleaned
func EscapesRoot(name string) bool {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(slashed, "/") || (len(slashed) > 1 && slashed[1] == ':') {
		return true
	}
	cleaned := path.Clean(slashed)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}
