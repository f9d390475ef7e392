// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package assetpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryForExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected Category
		found    bool
	}{
		{".png", CategoryImages, true},
		{".PNG", CategoryImages, true},
		{"png", CategoryImages, true},
		{".mp3", CategoryAudio, true},
		{".mp4", CategoryVideo, true},
		{".gltf", CategoryModels, true},
		{".pdf", CategoryDocuments, true},
		{".csv", CategoryData, true},
		{".woff2", CategoryFonts, true},
		{".unknownext", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			category, ok := CategoryForExtension(tt.ext)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestCategoryForExtension_TableIsDeterministic(t *testing.T) {
	exts := Extensions()
	assert.GreaterOrEqual(t, len(exts), 60)

	for _, ext := range exts {
		first, ok := CategoryForExtension(ext)
		require.True(t, ok, ext)
		second, _ := CategoryForExtension(ext)
		assert.Equal(t, first, second, ext)
		assert.True(t, first.IsValid(), ext)
		assert.NotEqual(t, CategoryOther, first, ext)
		assert.NotEmpty(t, MimeTypeForExtension(ext), ext)
	}
}

func TestCategoryForFilename(t *testing.T) {
	assert.Equal(t, CategoryImages, CategoryForFilename("photo.JPG"))
	assert.Equal(t, CategoryOther, CategoryForFilename("archive.bin"))
	assert.Equal(t, CategoryOther, CategoryForFilename("README"))
}

func TestMimeTypeForFilename(t *testing.T) {
	assert.Equal(t, "image/svg+xml", MimeTypeForFilename("diagram.svg"))
	assert.Equal(t, "text/csv", MimeTypeForFilename("results.csv"))
	assert.Equal(t, DefaultMimeType, MimeTypeForFilename("blob.xyz"))
}

func TestCategoryFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Category
		ok       bool
	}{
		{"assets/images/fig.png", CategoryImages, true},
		{"assets/data/nested/x.csv", CategoryData, true},
		{"assets/other/blob", CategoryOther, true},
		{"assets/unknown/fig.png", "", false},
		{"assets/fig.png", "", false},
		{"styles/theme.css", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			category, ok := CategoryFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestCategoryDir(t *testing.T) {
	assert.Equal(t, "assets/images/", CategoryImages.Dir())
	assert.Equal(t, "assets/other/", CategoryOther.Dir())
	assert.False(t, Category("media").IsValid())
	assert.Len(t, Categories(), 8)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "photo.png", "photo.png"},
		{"traversal", "../../etc/passwd", "etc/passwd"},
		{"dot segments", "./a/./b/../c.png", "a/b/c.png"},
		{"backslashes", `dir\sub\file.png`, "dir/sub/file.png"},
		{"leading slashes", "///abs/file.png", "abs/file.png"},
		{"control chars", "fi\x00le\x1f.png", "file.png"},
		{"only traversal", "../..", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestBuild(t *testing.T) {
	p, err := Build(CategoryImages, "../fig.png")
	require.NoError(t, err)
	assert.Equal(t, "assets/images/fig.png", p)
	assert.True(t, HasCategoryPrefix(p, CategoryImages))
	assert.False(t, HasCategoryPrefix(p, CategoryVideo))

	_, err = Build(Category("media"), "fig.png")
	assert.Error(t, err)

	_, err = Build(CategoryImages, "..")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "empty"))
}

func TestEscapesRoot(t *testing.T) {
	assert.False(t, EscapesRoot("assets/images/a.png"))
	assert.False(t, EscapesRoot("styles/../styles/a.css"))
	assert.False(t, EscapesRoot("v..1.md"))
	assert.True(t, EscapesRoot("../a.md"))
	assert.True(t, EscapesRoot(".."))
	assert.True(t, EscapesRoot("history/snapshots/v1/../../../../evil.md"))
	assert.True(t, EscapesRoot(`..\a.md`))
	assert.True(t, EscapesRoot("/etc/passwd"))
	assert.True(t, EscapesRoot("C:/evil"))
}
