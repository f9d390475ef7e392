// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/tejzpr/mdx-mcp/internal/container"
)

// ExportOptions controls ExportHistory
type ExportOptions struct {
	// FileName is the worktree path the content is written to; default is the entry point
	FileName string
	// Author and Email sign versions that carry no author
	Author string
	Email  string
	// Tag creates v<version> tags
	Tag bool
}

// ExportedVersion links a version to its commit
type ExportedVersion struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Tag     string `json:"tag,omitempty"`
}

// ExportResult holds the outcome of an export
type ExportResult struct {
	Exported []ExportedVersion `json:"exported"`
	Skipped  []string          `json:"skipped,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
}

// VersionMessage formats the commit message for a version
func VersionMessage(version, message string) string {
	if strings.TrimSpace(message) == "" {
		return fmt.Sprintf("version %s", version)
	}
	return fmt.Sprintf("version %s: %s", version, message)
}

// ExportHistory replays every resolvable version of doc as a commit in repo, oldest first.
// Versions whose content cannot be resolved are skipped and reported.
func ExportHistory(ctx context.Context, doc *container.Document, repo *Repository, opts ExportOptions) (*ExportResult, error) {
	fileName := opts.FileName
	if fileName == "" {
		fileName = doc.Manifest.EntryPoint()
	}
	defaults := DefaultCommitOptions()
	if opts.Author != "" {
		defaults.Author = opts.Author
	}
	if opts.Email != "" {
		defaults.Email = opts.Email
	}

	result := &ExportResult{}
	for _, v := range doc.Versions() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		content, err := doc.VersionContent(ctx, v.Version)
		if err != nil {
			result.Skipped = append(result.Skipped, v.Version)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", v.Version, err))
			continue
		}

		commitOpts := &CommitOptions{
			Author:     defaults.Author,
			Email:      defaults.Email,
			Message:    VersionMessage(v.Version, v.Message),
			AllowEmpty: true,
		}
		if v.Author.Name != "" {
			commitOpts.Author = v.Author.Name
			commitOpts.Email = v.Author.Email
		}
		if t, err := v.Timestamp.Time(); err == nil {
			commitOpts.When = t
		}

		hash, err := repo.WriteAndCommit(fileName, []byte(content), commitOpts)
		if err != nil {
			return result, fmt.Errorf("failed to commit version %s: %w", v.Version, err)
		}

		exported := ExportedVersion{Version: v.Version, Commit: hash.String()}
		if opts.Tag {
			exported.Tag = "v" + v.Version
			if err := repo.Tag(exported.Tag, hash); err != nil {
				return result, err
			}
		}
		result.Exported = append(result.Exported, exported)
	}
	return result, nil
}
