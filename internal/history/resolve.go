// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package history

import (
	"context"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Source provides snapshot payloads stored in the archive
type Source interface {
	Bytes(path string) ([]byte, bool)
}

// ReferenceResolver dereferences reference snapshots from external version control
type ReferenceResolver interface {
	Resolve(ctx context.Context, snapshot Snapshot) ([]byte, error)
}

// MakePatch returns a text patch turning base into target
func MakePatch(base, target string) string {
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(base, target)
	return dmp.PatchToText(patches)
}

// ApplyPatch applies a text patch to base. Every hunk must apply.
func ApplyPatch(base, patch string) (string, error) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("failed to parse patch: %w", err)
	}

	result, applied := dmp.PatchApply(patches, base)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("patch hunk %d did not apply", i+1)
		}
	}
	return result, nil
}

// Resolve returns the content of a version.
// Full snapshots come from src, diff snapshots are patched onto their base
// and reference snapshots go through refs, which may be nil.
func (l *Log) Resolve(ctx context.Context, version string, src Source, refs ReferenceResolver) (string, error) {
	return l.resolve(ctx, version, src, refs, 0)
}

func (l *Log) resolve(ctx context.Context, version string, src Source, refs ReferenceResolver, depth int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if depth > len(l.Versions) {
		return "", fmt.Errorf("%w: diff chain for %s loops", ErrUnresolvableSnapshot, version)
	}

	entry, ok := l.Find(version)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrVersionNotFound, version)
	}

	switch entry.Snapshot.Type {
	case SnapshotFull:
		data, ok := src.Bytes(entry.Snapshot.Path)
		if !ok {
			return "", fmt.Errorf("%w: snapshot %s for version %s not found in archive",
				ErrUnresolvableSnapshot, entry.Snapshot.Path, version)
		}
		return string(data), nil

	case SnapshotDiff:
		if entry.Snapshot.BaseVersion == "" {
			return "", fmt.Errorf("%w: diff snapshot for %s has no base_version", ErrUnresolvableSnapshot, version)
		}
		base, err := l.resolve(ctx, entry.Snapshot.BaseVersion, src, refs, depth+1)
		if err != nil {
			return "", fmt.Errorf("failed to resolve base %s of %s: %w", entry.Snapshot.BaseVersion, version, err)
		}
		patch, ok := src.Bytes(entry.Snapshot.Path)
		if !ok {
			return "", fmt.Errorf("%w: patch %s for version %s not found in archive",
				ErrUnresolvableSnapshot, entry.Snapshot.Path, version)
		}
		content, err := ApplyPatch(base, string(patch))
		if err != nil {
			return "", fmt.Errorf("failed to apply patch for %s: %w", version, err)
		}
		return content, nil

	case SnapshotReference:
		if refs == nil {
			return "", fmt.Errorf("%w: version %s is a reference snapshot and no resolver is configured",
				ErrUnresolvableSnapshot, version)
		}
		data, err := refs.Resolve(ctx, entry.Snapshot)
		if err != nil {
			return "", fmt.Errorf("failed to resolve reference for %s: %w", version, err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("%w: unknown snapshot type %q", ErrUnresolvableSnapshot, entry.Snapshot.Type)
	}
}
