// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package git

import (
	"context"
	"fmt"

	"github.com/tejzpr/mdx-mcp/internal/history"
)

// SnapshotResolver reads reference snapshots from a repository
type SnapshotResolver struct {
	Repo *Repository
}

// NewSnapshotResolver opens the repository at path
func NewSnapshotResolver(path string) (*SnapshotResolver, error) {
	repo, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &SnapshotResolver{Repo: repo}, nil
}

// Resolve implements history.ReferenceResolver
func (s *SnapshotResolver) Resolve(ctx context.Context, snap history.Snapshot) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap.Ref == "" {
		return nil, fmt.Errorf("reference snapshot for %s has no ref", snap.Path)
	}
	return s.Repo.GetFileAtRevision(snap.Path, snap.Ref)
}
