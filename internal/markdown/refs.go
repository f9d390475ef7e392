// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package markdown extracts what the toolkit needs from markdown text without a full parser.
package markdown

import (
	"net/url"
	"regexp"
	"strings"
)

// RefKind is the syntax a reference was found in
type RefKind string

const (
	RefImage     RefKind = "image"
	RefLink      RefKind = "link"
	RefDirective RefKind = "directive"
	RefHTML      RefKind = "html"
)

// Reference is a path referenced from markdown
type Reference struct {
	Target string
	Kind   RefKind
	Line   int
}

var (
	// imageRegex matches ![alt](target "title")
	imageRegex = regexp.MustCompile(`!\[[^\]]*\]\(\s*<?([^)\s>]+)>?(?:\s+["'][^"']*["'])?\s*\)`)
	// linkRegex matches [text](target) not preceded by !
	linkRegex = regexp.MustCompile(`(^|[^!])\[[^\]]*\]\(\s*<?([^)\s>]+)>?(?:\s+["'][^"']*["'])?\s*\)`)
	// directiveAttrRegex matches src/preview/poster attributes in directives and HTML
	directiveAttrRegex = regexp.MustCompile(`\b(?:src|preview|poster)\s*=\s*["']([^"']+)["']`)
	// htmlTagRegex detects lines carrying an HTML tag
	htmlTagRegex = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	// headingRegex matches an ATX level-one heading
	headingRegex = regexp.MustCompile(`^#\s+(.+?)\s*#*\s*$`)
)

// IsExternal reports whether target points outside the archive
func IsExternal(target string) bool {
	lower := strings.ToLower(target)
	for _, prefix := range []string{"http://", "https://", "data:", "mailto:", "//"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.HasPrefix(target, "#")
}

// NormalizeTarget strips fragments, queries, "./" and percent-encoding from a local target
func NormalizeTarget(target string) string {
	if idx := strings.IndexAny(target, "#?"); idx >= 0 {
		target = target[:idx]
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	return strings.TrimPrefix(target, "./")
}

// ExtractReferences returns every image, directive and HTML src reference in content.
// Code fences are skipped. Plain links are included only when includeLinks is set.
func ExtractReferences(content string, includeLinks bool) []Reference {
	var refs []Reference
	inFence := false
	fence := ""

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			marker := trimmed[:3]
			if !inFence {
				inFence, fence = true, marker
			} else if marker == fence {
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}

		lineNo := i + 1
		for _, m := range imageRegex.FindAllStringSubmatch(line, -1) {
			refs = append(refs, Reference{Target: m[1], Kind: RefImage, Line: lineNo})
		}
		if includeLinks {
			for _, m := range linkRegex.FindAllStringSubmatch(line, -1) {
				refs = append(refs, Reference{Target: m[2], Kind: RefLink, Line: lineNo})
			}
		}

		kind := RefDirective
		if htmlTagRegex.MatchString(line) && !strings.HasPrefix(trimmed, ":") {
			kind = RefHTML
		}
		for _, m := range directiveAttrRegex.FindAllStringSubmatch(line, -1) {
			refs = append(refs, Reference{Target: m[1], Kind: kind, Line: lineNo})
		}
	}

	return refs
}

// LocalReferences returns the normalized, de-duplicated local targets of ExtractReferences
func LocalReferences(content string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ref := range ExtractReferences(content, false) {
		if IsExternal(ref.Target) {
			continue
		}
		target := NormalizeTarget(ref.Target)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}

// FirstHeading returns the text of the first level-one heading, or ""
func FirstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if m := headingRegex.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1]
		}
	}
	return ""
}
