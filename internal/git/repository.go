// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package git connects container history to git repositories: reference snapshots are
// read from a repository and a container's versions can be replayed into one.
package git

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository is a working tree that snapshots are read from or exported into
type Repository struct {
	Path string
	repo *git.Repository
}

// Init creates a repository at path. A non-empty branch becomes the initial HEAD.
func Init(path, branch string) (*Repository, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}

	opts := &git.PlainInitOptions{}
	if branch != "" {
		opts.InitOptions.DefaultBranch = plumbing.NewBranchReferenceName(branch)
	}
	repo, err := git.PlainInitWithOptions(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize git repository at %s: %w", path, err)
	}
	return &Repository{Path: path, repo: repo}, nil
}

// Open opens the repository at path
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return &Repository{Path: path, repo: repo}, nil
}

// OpenOrInit opens the repository at path, creating one on branch when none exists
func OpenOrInit(path, branch string) (*Repository, error) {
	r, err := Open(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Init(path, branch)
	}
	return r, err
}

// Head returns the reference HEAD points at. An unborn HEAD yields plumbing.ErrReferenceNotFound.
func (r *Repository) Head() (*plumbing.Reference, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ref, nil
}

// IsClean reports whether the worktree has no uncommitted changes
func (r *Repository) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	return status.IsClean(), nil
}
