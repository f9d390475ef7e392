// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator

import (
	"math"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// checkAssets walks every manifest asset record and returns the set of declared paths
func (r *run) checkAssets() map[string]bool {
	declared := make(map[string]bool)
	inventory := object(r.raw, "assets")
	if inventory == nil {
		return declared
	}

	known := make(map[string]bool)
	for _, c := range assetpath.Categories() {
		known[string(c)] = true
	}
	var unknown []string
	for key := range inventory {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		r.add(report.Warningf(report.CodeAssetCategory, "assets."+key, "unknown asset category %q", key))
	}

	for _, category := range assetpath.Categories() {
		list, ok := inventory[string(category)].([]interface{})
		if !ok {
			continue
		}
		for i, item := range list {
			record, ok := item.(map[string]interface{})
			if !ok {
				r.add(report.Errorf(report.CodeAssetPathMissing, "", "assets.%s[%d] is not an object", category, i))
				continue
			}
			p := r.checkAsset(category, i, record)
			if p == "" {
				continue
			}
			if declared[p] {
				r.add(report.Warningf(report.CodeAssetDuplicate, p, "asset path declared more than once"))
			}
			declared[p] = true
		}
	}
	return declared
}

func (r *run) checkAsset(category assetpath.Category, index int, record map[string]interface{}) string {
	p, ok := str(record, "path")
	if !ok {
		r.add(report.Errorf(report.CodeAssetPathMissing, "", "assets.%s[%d] has no path", category, index))
		return ""
	}

	if !assetpath.HasCategoryPrefix(p, category) {
		r.add(report.Warningf(report.CodeAssetCategory, p, "asset is declared as %s but is not under %s", category, category.Dir()))
	}
	if _, ok := str(record, "mime_type"); !ok {
		r.add(report.Warningf(report.CodeAssetMimeType, p, "asset has no mime_type"))
	}
	if category == assetpath.CategoryImages {
		if _, ok := str(record, "alt_text"); !ok {
			r.add(report.Infof(report.CodeAltTextMissing, p, "image has no alt_text"))
		}
	}

	f, exists := r.entries[p]
	if !exists {
		r.add(report.Errorf(report.CodeAssetNotFound, p, "asset not found in archive"))
	}

	rawSize := record["size_bytes"]
	size, isNumber := rawSize.(float64)
	switch {
	case rawSize == nil:
		r.add(report.Infof(report.CodeAssetSizeMissing, p, "asset has no size_bytes"))
	case !isNumber || size < 0 || size != math.Trunc(size) || size >= math.MaxInt64:
		r.add(report.Warningf(report.CodeAssetSizeInvalid, p, "size_bytes %v is not a non-negative integer", rawSize))
	case exists && uint64(size) != f.UncompressedSize64:
		r.add(report.Warningf(report.CodeAssetSizeMismatch, p, "size_bytes is %s but the archive entry is %s",
			humanize.Comma(int64(size)), humanize.Comma(int64(f.UncompressedSize64))))
	}

	if checksum, ok := str(record, "checksum"); ok {
		r.checkChecksum(p, checksum, exists)
	}
	return p
}

func (r *run) checkChecksum(p, checksum string, exists bool) {
	if _, _, err := integrity.Parse(checksum); err != nil {
		r.add(report.Warningf(report.CodeChecksumMalformed, p, "checksum %q is malformed: %v", checksum, err))
		return
	}
	if !exists {
		return
	}
	data, ok := r.read(p)
	if !ok {
		r.add(report.Errorf(report.CodeChecksumMismatch, p, "asset could not be read to verify its checksum"))
		return
	}
	match, err := integrity.Verify(checksum, data)
	if err != nil {
		r.add(report.Warningf(report.CodeChecksumMalformed, p, "checksum could not be verified: %v", err))
		return
	}
	if !match {
		r.add(report.Errorf(report.CodeChecksumMismatch, p, "checksum mismatch: manifest declares %s", checksum))
	}
}

// checkOrphans reports assets/ entries no manifest record points at
func (r *run) checkOrphans(declared map[string]bool) {
	for _, f := range r.order {
		if f.FileInfo().IsDir() || !assetpath.IsAssetPath(f.Name) {
			continue
		}
		if !declared[f.Name] {
			r.add(report.Warningf(report.CodeOrphanedAsset, f.Name, "Orphaned asset: no manifest record references this file"))
		}
	}
}
