// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResult_Buckets(t *testing.T) {
	issues := []Issue{
		Infof(CodeAltTextMissing, "assets/images/b.png", "missing alt text"),
		Warningf(CodeOrphanedAsset, "assets/images/z.png", "Orphaned asset"),
		Errorf(CodeChecksumMismatch, "assets/images/a.png", "checksum mismatch"),
		Warningf(CodeAssetMimeType, "assets/images/a.png", "missing mime_type"),
	}

	r := NewResult(issues)
	assert.False(t, r.Valid)
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 2)
	assert.Len(t, r.Info, 1)
	assert.Equal(t, "assets/images/a.png", r.Warnings[0].Path)
	assert.Equal(t, "assets/images/z.png", r.Warnings[1].Path)
	assert.True(t, r.HasCode(CodeOrphanedAsset))
	assert.False(t, r.HasCode(CodeDotfile))
	assert.Equal(t, "FAIL: 1 error(s), 2 warning(s), 1 info", r.Summary())
}

func TestNewResult_WarningsDoNotAffectValidity(t *testing.T) {
	r := NewResult([]Issue{
		Warningf(CodeOrphanedAsset, "assets/x.png", "Orphaned asset"),
		Infof(CodeLargeAsset, "assets/y.bin", "large"),
	})
	assert.True(t, r.Valid)

	empty := NewResult(nil)
	assert.True(t, empty.Valid)
	assert.NotNil(t, empty.Errors)
	assert.Empty(t, empty.All())
}

func TestSort_Deterministic(t *testing.T) {
	a := []Issue{
		Infof(CodeDotfile, "b", "x"),
		Errorf(CodeAssetNotFound, "c", "x"),
		Errorf(CodeAssetNotFound, "a", "x"),
		Warningf(CodePathTooLong, "a", "x"),
	}
	b := []Issue{a[3], a[2], a[1], a[0]}

	Sort(a)
	Sort(b)
	assert.Equal(t, a, b)
	assert.Equal(t, SeverityError, a[0].Severity)
	assert.Equal(t, "a", a[0].Path)
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "[error] MDX051 assets/a.png: bad", Errorf(CodeChecksumMismatch, "assets/a.png", "bad").String())
	assert.Equal(t, "[info] MDX014 note", Infof(CodeOptionalField, "", "note").String())
}
