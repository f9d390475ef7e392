// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/mdx-mcp/internal/annotation"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/history"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

func buildZip(t *testing.T, entries [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

// baseManifest returns a manifest with every required and recommended field set
func baseManifest() map[string]interface{} {
	return map[string]interface{}{
		"mdx_version": "1.1.0",
		"document": map[string]interface{}{
			"id":          "6f1c2a7e-8d4b-4c3a-9e2f-1a2b3c4d5e6f",
			"title":       "Test",
			"created":     "2026-01-01T00:00:00Z",
			"modified":    "2026-01-02T00:00:00Z",
			"description": "a test document",
			"authors":     []interface{}{map[string]interface{}{"name": "Ada"}},
			"language":    "en-US",
			"version":     "1.0.0",
		},
		"content": map[string]interface{}{"entry_point": "document.md"},
	}
}

func manifestJSON(t *testing.T, m map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	return string(data)
}

func document(m map[string]interface{}) map[string]interface{} {
	return m["document"].(map[string]interface{})
}

func codes(issues []report.Issue) []report.Code {
	var out []report.Code
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestValidate_CreatedDocumentPasses(t *testing.T) {
	doc, err := container.Create("Report", container.CreateOptions{
		Description: "quarterly numbers",
		Content:     "# Report\n\n![Figure](assets/images/fig.png)\n",
	})
	require.NoError(t, err)
	doc.AddAuthor(manifest.Person{Name: "Ada", Email: "ada@example.com"})
	_, err = doc.AddAsset(context.Background(), pngBytes(t), "fig.png", container.AssetOptions{AltText: "a figure"})
	require.NoError(t, err)
	data, err := doc.Save(context.Background())
	require.NoError(t, err)

	res := Validate(data)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_ChecksumMismatch(t *testing.T) {
	doc, err := container.Create("Report", container.CreateOptions{
		Content: "![Figure](assets/images/fig.png)\n",
	})
	require.NoError(t, err)
	rec, err := doc.AddAsset(context.Background(), pngBytes(t), "fig.png", container.AssetOptions{AltText: "a figure"})
	require.NoError(t, err)
	rec.Base().Checksum = "sha256:" + strings.Repeat("0", 64)
	data, err := doc.Save(context.Background())
	require.NoError(t, err)

	res := Validate(data)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, report.CodeChecksumMismatch, res.Errors[0].Code)
	assert.Equal(t, "assets/images/fig.png", res.Errors[0].Path)
	assert.Contains(t, res.Errors[0].Message, "checksum mismatch")
}

func TestValidate_OrphanedAsset(t *testing.T) {
	doc, err := container.Create("Report", container.CreateOptions{})
	require.NoError(t, err)
	doc.Assets.Put("assets/images/orphan.png", pngBytes(t))
	data, err := doc.Save(context.Background())
	require.NoError(t, err)

	res := Validate(data)
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, report.CodeOrphanedAsset, res.Warnings[0].Code)
	assert.Equal(t, "assets/images/orphan.png", res.Warnings[0].Path)
	assert.Contains(t, res.Warnings[0].Message, "Orphaned asset")
}

func TestValidate_Idempotent(t *testing.T) {
	m := baseManifest()
	delete(document(m), "title")
	data := buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, m)},
		{"document.md", "![x](assets/images/missing.png)\n"},
		{"assets/data/stray.csv", "a,b\n1,2\n"},
		{".DS_Store", "junk"},
	})

	first := Validate(data)
	second := Validate(data)
	assert.Equal(t, first, second)
	assert.False(t, first.Valid)
}

func TestValidate_Structural(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		res := Validate([]byte("plain text"))
		assert.False(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeNotArchive}, codes(res.Errors))
	})

	t.Run("manifest missing", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{{"document.md", "# hi\n"}}))
		assert.False(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeManifestMissing}, codes(res.Errors))
		assert.Contains(t, res.Errors[0].Message, "manifest.json")
	})

	t.Run("manifest malformed", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{{"manifest.json", "{nope"}, {"document.md", "# hi\n"}}))
		assert.Equal(t, []report.Code{report.CodeManifestMalformed}, codes(res.Errors))
		assert.Empty(t, res.Warnings)
	})

	t.Run("manifest unreadable", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		garbage := []byte{0xff, 0xff, 0xff, 0xff}
		w, err := zw.CreateRaw(&zip.FileHeader{
			Name:               "manifest.json",
			Method:             zip.Deflate,
			CRC32:              crc32.ChecksumIEEE([]byte("{}")),
			CompressedSize64:   uint64(len(garbage)),
			UncompressedSize64: 2,
		})
		require.NoError(t, err)
		_, err = w.Write(garbage)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		res := Validate(buf.Bytes())
		assert.False(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeManifestMalformed}, codes(res.Errors))
		assert.Contains(t, res.Errors[0].Message, "cannot be read")
	})

	t.Run("duplicate entry names", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, baseManifest())},
			{"document.md", "# hi\n"},
			{"document.md", "# replaced\n"},
		}))
		assert.False(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeDuplicateEntry}, codes(res.Errors))
		assert.Equal(t, "document.md", res.Errors[0].Path)
	})

	t.Run("manifest not an object", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{{"manifest.json", "[1,2]"}}))
		assert.Equal(t, []report.Code{report.CodeManifestMalformed}, codes(res.Errors))
	})
}

func TestValidate_ManifestFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m map[string]interface{})
		severity report.Severity
		code     report.Code
		path     string
	}{
		{"title missing", func(m map[string]interface{}) { delete(document(m), "title") },
			report.SeverityError, report.CodeTitleMissing, "document.title"},
		{"bad semver", func(m map[string]interface{}) { m["mdx_version"] = "one" },
			report.SeverityWarning, report.CodeVersionFormat, "mdx_version"},
		{"mdx_version missing", func(m map[string]interface{}) { delete(m, "mdx_version") },
			report.SeverityWarning, report.CodeVersionFormat, "mdx_version"},
		{"id not uuid v4", func(m map[string]interface{}) { document(m)["id"] = "doc-1" },
			report.SeverityWarning, report.CodeDocumentID, "document.id"},
		{"created malformed", func(m map[string]interface{}) { document(m)["created"] = "yesterday" },
			report.SeverityWarning, report.CodeTimestamp, "document.created"},
		{"modified before created", func(m map[string]interface{}) { document(m)["modified"] = "2025-01-01T00:00:00Z" },
			report.SeverityWarning, report.CodeTimestampOrder, "document.modified"},
		{"description missing", func(m map[string]interface{}) { delete(document(m), "description") },
			report.SeverityInfo, report.CodeOptionalField, "document.description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := baseManifest()
			tt.mutate(m)
			res := Validate(buildZip(t, [][2]string{
				{"manifest.json", manifestJSON(t, m)},
				{"document.md", "# hi\n"},
			}))

			all := res.All()
			require.Len(t, all, 1, "issues: %v", all)
			assert.Equal(t, tt.severity, all[0].Severity)
			assert.Equal(t, tt.code, all[0].Code)
			assert.Equal(t, tt.path, all[0].Path)
			assert.Equal(t, tt.severity != report.SeverityError, res.Valid)
		})
	}
}

func TestValidate_EntryPoint(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{{"manifest.json", manifestJSON(t, baseManifest())}}))
		assert.Equal(t, []report.Code{report.CodeEntryPointMissing}, codes(res.Errors))
	})

	t.Run("references", func(t *testing.T) {
		content := strings.Join([]string{
			"![ok](assets/images/a.png)",
			"![remote](https://example.com/x.png)",
			"![inline](data:image/png;base64,AAAA)",
			"![gone](assets/images/gone.png)",
			`::video{src="assets/video/clip.mp4"}`,
			"```",
			"![in fence](assets/images/fenced.png)",
			"```",
		}, "\n")
		m := baseManifest()
		m["assets"] = map[string]interface{}{
			"images": []interface{}{map[string]interface{}{
				"path": "assets/images/a.png", "mime_type": "image/png", "size_bytes": 3, "alt_text": "a",
			}},
		}
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, m)},
			{"document.md", content},
			{"assets/images/a.png", "png"},
		}))

		require.Len(t, res.Errors, 2)
		assert.Equal(t, report.CodeBrokenReference, res.Errors[0].Code)
		assert.Equal(t, "assets/images/gone.png", res.Errors[0].Path)
		assert.Equal(t, "assets/video/clip.mp4", res.Errors[1].Path)
		assert.Empty(t, res.Warnings)
	})

	t.Run("custom entry point in subdirectory", func(t *testing.T) {
		m := baseManifest()
		m["content"] = map[string]interface{}{"entry_point": "docs/index.md"}
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, m)},
			{"docs/index.md", "![local](img/pic.png)\n"},
			{"docs/img/pic.png", "png"},
		}))
		assert.True(t, res.Valid, "errors: %v", res.Errors)
	})
}

func TestValidate_AssetRecords(t *testing.T) {
	data := []byte("hello")
	sum, err := integrity.Compute("sha256", data)
	require.NoError(t, err)

	m := baseManifest()
	m["assets"] = map[string]interface{}{
		"images": []interface{}{
			map[string]interface{}{"path": "assets/images/no-alt.png", "mime_type": "image/png", "size_bytes": 5},
			map[string]interface{}{"mime_type": "image/png"},
		},
		"data": []interface{}{
			map[string]interface{}{"path": "assets/data/gone.csv", "mime_type": "text/csv", "size_bytes": 1},
			map[string]interface{}{"path": "assets/fonts/wrong.csv", "mime_type": "text/csv", "size_bytes": 5, "checksum": sum},
			map[string]interface{}{"path": "assets/data/stale.csv", "mime_type": "text/csv", "size_bytes": 99},
			map[string]interface{}{"path": "assets/data/nomime.csv", "size_bytes": 5},
			map[string]interface{}{"path": "assets/data/badsum.csv", "mime_type": "text/csv", "size_bytes": 5, "checksum": "sha256:XYZ"},
			map[string]interface{}{"path": "assets/data/nosize.csv", "mime_type": "text/csv"},
		},
		"holograms": []interface{}{},
	}
	res := Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, m)},
		{"document.md", "# hi\n"},
		{"assets/images/no-alt.png", "hello"},
		{"assets/fonts/wrong.csv", "hello"},
		{"assets/data/stale.csv", "hello"},
		{"assets/data/nomime.csv", "hello"},
		{"assets/data/badsum.csv", "hello"},
		{"assets/data/nosize.csv", "hello"},
	}))

	assert.False(t, res.Valid)
	assert.ElementsMatch(t, []report.Code{report.CodeAssetPathMissing, report.CodeAssetNotFound}, codes(res.Errors))
	assert.ElementsMatch(t, []report.Code{
		report.CodeAssetCategory, // holograms
		report.CodeAssetCategory, // wrong.csv under fonts
		report.CodeAssetSizeMismatch,
		report.CodeAssetMimeType,
		report.CodeChecksumMalformed,
	}, codes(res.Warnings))
	assert.True(t, res.HasCode(report.CodeAltTextMissing))
	assert.True(t, res.HasCode(report.CodeAssetSizeMissing))
}

func TestValidate_DuplicateRecords(t *testing.T) {
	m := baseManifest()
	rec := map[string]interface{}{"path": "assets/images/a.png", "mime_type": "image/png", "size_bytes": 3, "alt_text": "a"}
	m["assets"] = map[string]interface{}{"images": []interface{}{rec, rec}}
	res := Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, m)},
		{"document.md", "# hi\n"},
		{"assets/images/a.png", "png"},
	}))
	assert.True(t, res.Valid)
	assert.Equal(t, []report.Code{report.CodeAssetDuplicate}, codes(res.Warnings))
}

func TestValidate_PathHygiene(t *testing.T) {
	long := "notes/" + strings.Repeat("a", 260) + ".txt"
	res := New(Options{MaxAssetBytes: 4}).Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, baseManifest())},
		{"document.md", "# hi\n"},
		{`notes\windows.txt`, "x"},
		{long, "x"},
		{"__MACOSX/._document.md", "x"},
		{"Thumbs.db", "x"},
		{".hidden", "x"},
		{"extensions/big.bin", "more than four bytes"},
	}))

	assert.False(t, res.Valid)
	assert.Equal(t, []report.Code{report.CodeBackslashPath}, codes(res.Errors))
	assert.ElementsMatch(t, []report.Code{
		report.CodePathTooLong, report.CodeOSArtifact, report.CodeOSArtifact,
	}, codes(res.Warnings))
	assert.Equal(t, []report.Code{report.CodeDotfile}, codes(res.Info))
}

func TestValidate_UnsafePaths(t *testing.T) {
	res := Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, baseManifest())},
		{"document.md", "# hi\n"},
		{"history/snapshots/v1/../../../../evil.md", "x"},
		{"/etc/passwd", "x"},
		{"styles/../styles/ok.css", "x"},
	}))

	assert.False(t, res.Valid)
	assert.Equal(t, []report.Code{report.CodeUnsafePath, report.CodeUnsafePath}, codes(res.Errors))
	assert.ElementsMatch(t, []string{"history/snapshots/v1/../../../../evil.md", "/etc/passwd"},
		[]string{res.Errors[0].Path, res.Errors[1].Path})
	assert.Empty(t, res.Info)
}

func TestValidate_InvalidSizeBytes(t *testing.T) {
	m := baseManifest()
	m["assets"] = map[string]interface{}{
		"data": []interface{}{
			map[string]interface{}{"path": "assets/data/neg.csv", "mime_type": "text/csv", "size_bytes": -1},
			map[string]interface{}{"path": "assets/data/frac.csv", "mime_type": "text/csv", "size_bytes": 2.5},
			map[string]interface{}{"path": "assets/data/text.csv", "mime_type": "text/csv", "size_bytes": "five"},
		},
	}
	res := Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, m)},
		{"document.md", "# hi\n"},
		{"assets/data/neg.csv", "hello"},
		{"assets/data/frac.csv", "hello"},
		{"assets/data/text.csv", "hello"},
	}))

	assert.True(t, res.Valid)
	assert.Equal(t, []report.Code{
		report.CodeAssetSizeInvalid, report.CodeAssetSizeInvalid, report.CodeAssetSizeInvalid,
	}, codes(res.Warnings))
	assert.False(t, res.HasCode(report.CodeAssetSizeMismatch))
	assert.False(t, res.HasCode(report.CodeAssetSizeMissing))
}

func TestValidate_LargeAsset(t *testing.T) {
	m := baseManifest()
	m["assets"] = map[string]interface{}{
		"data": []interface{}{map[string]interface{}{"path": "assets/data/big.bin", "mime_type": "application/octet-stream", "size_bytes": 20}},
	}
	data := buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, m)},
		{"document.md", "# hi\n"},
		{"assets/data/big.bin", strings.Repeat("x", 20)},
	})

	res := New(Options{MaxAssetBytes: 10}).Validate(data)
	assert.True(t, res.Valid)
	require.True(t, res.HasCode(report.CodeLargeAsset))
	assert.Equal(t, "assets/data/big.bin", res.Info[0].Path)

	assert.False(t, Validate(data).HasCode(report.CodeLargeAsset))
}

func TestValidate_History(t *testing.T) {
	log := history.NewLog()
	require.NoError(t, log.Append(&history.Entry{
		Version:  "1.0.0",
		Snapshot: history.Snapshot{Type: history.SnapshotFull, Path: "history/snapshots/v1.0.0.md"},
	}))
	require.NoError(t, log.Append(&history.Entry{
		Version:  "1.1.0",
		Snapshot: history.Snapshot{Type: history.SnapshotFull, Path: "history/snapshots/v1.1.0.md"},
	}))
	versions, err := log.JSON()
	require.NoError(t, err)

	m := baseManifest()
	m["history"] = map[string]interface{}{"enabled": true}

	t.Run("snapshot missing", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, m)},
			{"document.md", "# hi\n"},
			{"history/versions.json", string(versions)},
			{"history/snapshots/v1.0.0.md", "# old\n"},
		}))
		assert.False(t, res.Valid)
		require.Equal(t, []report.Code{report.CodeSnapshotMissing}, codes(res.Errors))
		assert.Equal(t, "history/snapshots/v1.1.0.md", res.Errors[0].Path)
	})

	t.Run("enabled without versions file", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, m)},
			{"document.md", "# hi\n"},
		}))
		assert.True(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeHistoryFileMissing}, codes(res.Warnings))
	})

	t.Run("malformed", func(t *testing.T) {
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, m)},
			{"document.md", "# hi\n"},
			{"history/versions.json", "not json"},
		}))
		assert.True(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeVersionsMalformed}, codes(res.Warnings))
	})

	t.Run("broken chain", func(t *testing.T) {
		bad := "other"
		log.Versions[1].ParentVersion = &bad
		broken, err := log.JSON()
		require.NoError(t, err)
		res := Validate(buildZip(t, [][2]string{
			{"manifest.json", manifestJSON(t, m)},
			{"document.md", "# hi\n"},
			{"history/versions.json", string(broken)},
			{"history/snapshots/v1.0.0.md", "# old\n"},
			{"history/snapshots/v1.1.0.md", "# new\n"},
		}))
		assert.True(t, res.Valid)
		assert.Equal(t, []report.Code{report.CodeVersionChain}, codes(res.Warnings))
	})
}

func TestValidate_Annotations(t *testing.T) {
	set := annotation.NewSet()
	_, err := set.Add(annotation.MotivationCommenting, annotation.Person("Ada"), "hi", "nice", annotation.Options{})
	require.NoError(t, err)
	set.Annotations[0].Status = "pending"
	data, err := set.JSON()
	require.NoError(t, err)

	res := Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, baseManifest())},
		{"document.md", "# hi\n"},
		{"annotations/annotations.json", string(data)},
	}))
	assert.True(t, res.Valid)
	assert.Equal(t, []report.Code{report.CodeAnnotationStatus}, codes(res.Warnings))

	res = Validate(buildZip(t, [][2]string{
		{"manifest.json", manifestJSON(t, baseManifest())},
		{"document.md", "# hi\n"},
		{"annotations/annotations.json", "{"},
	}))
	assert.Equal(t, []report.Code{report.CodeAnnotationsMalformed}, codes(res.Warnings))
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	doc, err := container.Create("One", container.CreateOptions{})
	require.NoError(t, err)
	good := filepath.Join(dir, "one.mdx")
	require.NoError(t, doc.SaveFile(context.Background(), good))
	bad := filepath.Join(dir, "bad.mdx")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	missing := filepath.Join(dir, "missing.mdx")

	results := New(DefaultOptions()).ValidateFiles(context.Background(), []string{good, bad, missing}, 2)
	require.Len(t, results, 3)

	assert.Equal(t, good, results[0].Path)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Result.Valid)

	require.NoError(t, results[1].Err)
	assert.False(t, results[1].Result.Valid)

	assert.Error(t, results[2].Err)
}
