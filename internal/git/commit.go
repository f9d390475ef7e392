// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// CommitOptions holds options for creating commits
type CommitOptions struct {
	Author     string
	Email      string
	Message    string
	When       time.Time
	AllowEmpty bool
}

// DefaultCommitOptions returns default commit options
func DefaultCommitOptions() *CommitOptions {
	return &CommitOptions{
		Author:  "MDX",
		Email:   "mdx@localhost",
		Message: "Update content",
	}
}

// CommitInfo represents information about a commit
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func commitInfo(c *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:      c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When,
	}
}

// WriteAndCommit writes data to relPath inside the worktree and commits it
func (r *Repository) WriteAndCommit(relPath string, data []byte, opts *CommitOptions) (plumbing.Hash, error) {
	if opts == nil {
		opts = DefaultCommitOptions()
	}

	abs := filepath.Join(r.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to write %s: %w", relPath, err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get worktree: %w", err)
	}
	if _, err := worktree.Add(filepath.ToSlash(relPath)); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to add file %s: %w", relPath, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get status: %w", err)
	}
	if status.IsClean() && !opts.AllowEmpty {
		return plumbing.ZeroHash, fmt.Errorf("no changes to commit")
	}

	when := opts.When
	if when.IsZero() {
		when = time.Now()
	}
	hash, err := worktree.Commit(opts.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  opts.Author,
			Email: opts.Email,
			When:  when,
		},
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to commit: %w", err)
	}
	return hash, nil
}

// Tag points a lightweight tag at hash, moving it if it already exists
func (r *Repository) Tag(name string, hash plumbing.Hash) error {
	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), hash)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("failed to tag %s: %w", name, err)
	}
	return nil
}

// GetCommitHistory returns up to maxCount commits reachable from HEAD, newest first
func (r *Repository) GetCommitHistory(maxCount int) ([]CommitInfo, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}

	var commits []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		if maxCount > 0 && len(commits) >= maxCount {
			return storer.ErrStop
		}
		commits = append(commits, commitInfo(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return commits, nil
}
