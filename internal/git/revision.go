// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package git

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// GetFileAtRevision returns a file's content at a specific revision
func (r *Repository) GetFileAtRevision(filePath string, ref string) ([]byte, error) {
	relPath := filePath
	if filepath.IsAbs(filePath) {
		if rel, err := filepath.Rel(r.Path, filePath); err == nil {
			relPath = rel
		}
	}
	relPath = filepath.ToSlash(relPath)

	hash, err := r.resolveRef(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ref '%s': %w", ref, err)
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}
	file, err := tree.File(relPath)
	if err != nil {
		return nil, fmt.Errorf("file not found at revision: %w", err)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return []byte(content), nil
}

// resolveRef resolves a reference string to a commit hash.
// Supports HEAD, HEAD~N, branch names, tag names and commit hashes.
func (r *Repository) resolveRef(ref string) (plumbing.Hash, error) {
	if ref == "HEAD" || strings.HasPrefix(ref, "HEAD~") {
		headRef, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		if ref == "HEAD" {
			return headRef.Hash(), nil
		}

		n, err := strconv.Atoi(strings.TrimPrefix(ref, "HEAD~"))
		if err != nil || n < 0 {
			return plumbing.ZeroHash, fmt.Errorf("invalid ref format: %s", ref)
		}
		commit, err := r.repo.CommitObject(headRef.Hash())
		if err != nil {
			return plumbing.ZeroHash, err
		}
		for i := 0; i < n; i++ {
			parent, err := commit.Parent(0)
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("cannot go back %d commits: %w", n, err)
			}
			commit = parent
		}
		return commit.Hash, nil
	}

	if len(ref) == 40 {
		hash := plumbing.NewHash(ref)
		if _, err := r.repo.CommitObject(hash); err == nil {
			return hash, nil
		}
	}

	if refObj, err := r.repo.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
		return refObj.Hash(), nil
	}
	if refObj, err := r.repo.Reference(plumbing.NewTagReferenceName(ref), true); err == nil {
		// annotated tags point at a tag object
		if tag, err := r.repo.TagObject(refObj.Hash()); err == nil {
			return tag.Target, nil
		}
		return refObj.Hash(), nil
	}

	// abbreviated hashes and other revision syntax
	if hash, err := r.repo.ResolveRevision(plumbing.Revision(ref)); err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("cannot resolve reference: %s", ref)
}
