// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package container

import (
	"context"
	"fmt"

	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/assets"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
)

// StylesDir is the archive directory for stylesheets
const StylesDir = "styles/"

// AssetOptions are optional inputs to AddAsset
type AssetOptions struct {
	Category    assetpath.Category
	Title       string
	Description string
	AltText     string
}

// AddAsset stores data as an asset, records it in the manifest and returns the record.
// Adding a file at an existing path replaces its bytes and rebuilds the record.
func (d *Document) AddAsset(ctx context.Context, data []byte, filename string, opts AssetOptions) (manifest.Asset, error) {
	category := opts.Category
	if category == "" {
		category = assetpath.CategoryForFilename(filename)
	}
	path, err := assetpath.Build(category, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to add asset: %w", err)
	}

	existing, exists := d.Manifest.FindAsset(path)
	if exists && existing.Category() != category {
		return nil, fmt.Errorf("%w: %s is already recorded as %s", manifest.ErrCategoryMismatch, path, existing.Category())
	}

	entry, err := d.Assets.AddFromBytes(ctx, data, filename, assets.AddOptions{
		Category:  category,
		Algorithm: d.config.ChecksumAlgorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add asset: %w", err)
	}

	size := entry.Size()
	record, err := manifest.NewAsset(category, manifest.BaseAsset{
		Path:        entry.Path,
		MimeType:    entry.MimeType,
		SizeBytes:   &size,
		Checksum:    entry.Checksum,
		Title:       opts.Title,
		Description: opts.Description,
	})
	if err != nil {
		d.Assets.Remove(entry.Path)
		return nil, err
	}
	if img, ok := record.(*manifest.ImageAsset); ok {
		img.AltText = opts.AltText
	}
	if exists {
		keepDescriptive(record, existing)
	}
	Probe(record, data)

	if exists {
		if err := d.Manifest.ReplaceAsset(record); err != nil {
			return nil, err
		}
		return record, nil
	}

	if err := d.Manifest.AddAsset(record, category); err != nil {
		d.Assets.Remove(entry.Path)
		return nil, err
	}
	return record, nil
}

// keepDescriptive carries caller-written text from old into a rebuilt record
// when the new call left it empty. Derived fields are never carried.
func keepDescriptive(record, old manifest.Asset) {
	b, ob := record.Base(), old.Base()
	if b.Title == "" {
		b.Title = ob.Title
	}
	if b.Description == "" {
		b.Description = ob.Description
	}
	img, ok := record.(*manifest.ImageAsset)
	oldImg, oldOK := old.(*manifest.ImageAsset)
	if ok && oldOK && img.AltText == "" {
		img.AltText = oldImg.AltText
	}
}

// RemoveAsset deletes an asset's bytes and its manifest record.
// It returns false when neither existed.
func (d *Document) RemoveAsset(path string) bool {
	removedBytes := d.Assets.Remove(path)
	removedRecord := d.Manifest.RemoveAsset(path)
	if removedBytes && !removedRecord {
		d.Manifest.Touch()
	}
	return removedBytes || removedRecord
}

// Asset returns the bytes stored at path
func (d *Document) Asset(path string) ([]byte, bool) {
	return d.Assets.Bytes(path)
}

// AddStyle stores a stylesheet under styles/ and references it from the manifest.
// The first stylesheet, or any with asTheme set, becomes styles.theme.
func (d *Document) AddStyle(data []byte, filename string, asTheme bool) (string, error) {
	clean := assetpath.Sanitize(filename)
	if clean == "" {
		return "", fmt.Errorf("stylesheet name %q is empty after sanitization", filename)
	}
	path := StylesDir + clean
	d.Assets.Put(path, data)

	if asTheme || d.Manifest.Styles == nil || d.Manifest.Styles.Theme == "" {
		d.Manifest.SetTheme(path)
	} else {
		d.Manifest.AddCustomStyle(path)
	}
	return path, nil
}
