// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package container

import (
	"context"
	"fmt"
	"path"

	"github.com/tejzpr/mdx-mcp/internal/history"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
)

// VersionInput describes a version to record
type VersionInput struct {
	Version string
	Message string
	Author  history.Author
	Changes *history.Changes
	Tags    []string
}

func (d *Document) snapshotExt() string {
	ext := path.Ext(d.Manifest.EntryPoint())
	if ext == "" {
		return ".md"
	}
	return ext
}

func (d *Document) appendVersion(in VersionInput, snap history.Snapshot) (*history.Entry, error) {
	if !d.historyEnabled() {
		d.Manifest.EnableHistory()
	}

	entry := &history.Entry{
		Version:   in.Version,
		Timestamp: manifest.Now(),
		Author:    in.Author,
		Message:   in.Message,
		Snapshot:  snap,
		Changes:   in.Changes,
		Tags:      in.Tags,
	}
	if err := d.History.Append(entry); err != nil {
		return nil, err
	}
	d.Manifest.SetVersion(in.Version)
	return entry, nil
}

func (d *Document) historyEnabled() bool {
	return d.Manifest.History != nil && d.Manifest.History.Enabled
}

func (d *Document) checkNewVersion(version string) error {
	if err := history.ValidateVersion(version); err != nil {
		return err
	}
	if _, exists := d.History.Find(version); exists {
		return fmt.Errorf("%w: %s", history.ErrVersionExists, version)
	}
	return nil
}

// CreateVersion snapshots the current content in full and appends it to the history
func (d *Document) CreateVersion(in VersionInput) (*history.Entry, error) {
	if err := d.checkNewVersion(in.Version); err != nil {
		return nil, err
	}

	snapPath := history.SnapshotPath(d.Manifest.SnapshotsDirectory(), in.Version, d.snapshotExt())
	d.Assets.Put(snapPath, []byte(d.content))

	entry, err := d.appendVersion(in, history.Snapshot{Type: history.SnapshotFull, Path: snapPath})
	if err != nil {
		d.Assets.Remove(snapPath)
		return nil, err
	}
	return entry, nil
}

// CreateDiffVersion stores the current content as a patch against the head version
func (d *Document) CreateDiffVersion(ctx context.Context, in VersionInput) (*history.Entry, error) {
	if err := d.checkNewVersion(in.Version); err != nil {
		return nil, err
	}
	head := d.History.Head()
	if head == nil {
		return nil, fmt.Errorf("a diff version needs a previous version; create a full version first")
	}

	base, err := d.VersionContent(ctx, head.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base version %s: %w", head.Version, err)
	}

	snapPath := history.SnapshotPath(d.Manifest.SnapshotsDirectory(), in.Version, ".patch")
	d.Assets.Put(snapPath, []byte(history.MakePatch(base, d.content)))

	entry, err := d.appendVersion(in, history.Snapshot{
		Type:        history.SnapshotDiff,
		Path:        snapPath,
		BaseVersion: head.Version,
	})
	if err != nil {
		d.Assets.Remove(snapPath)
		return nil, err
	}
	return entry, nil
}

// CreateReferenceVersion records a version whose content lives in external version control
func (d *Document) CreateReferenceVersion(in VersionInput, file, ref string) (*history.Entry, error) {
	if err := d.checkNewVersion(in.Version); err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, fmt.Errorf("reference snapshots need a ref")
	}
	if file == "" {
		file = d.Manifest.EntryPoint()
	}
	return d.appendVersion(in, history.Snapshot{Type: history.SnapshotReference, Path: file, Ref: ref})
}

// Versions returns the version entries in order
func (d *Document) Versions() []*history.Entry {
	return d.History.Versions
}

// VersionContent resolves the content recorded for version
func (d *Document) VersionContent(ctx context.Context, version string) (string, error) {
	return d.History.Resolve(ctx, version, d.Assets, d.config.References)
}

// RestoreVersion replaces the current content with a version's content.
// The version list is not changed.
func (d *Document) RestoreVersion(ctx context.Context, version string) error {
	content, err := d.VersionContent(ctx, version)
	if err != nil {
		return fmt.Errorf("failed to restore version %s: %w", version, err)
	}
	d.SetContent(content)
	return nil
}
