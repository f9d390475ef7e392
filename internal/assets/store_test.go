// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package assets

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
)

func TestAddFromBytes(t *testing.T) {
	s := NewStore()
	data := []byte("fake png bytes")

	entry, err := s.AddFromBytes(context.Background(), data, "../Fig 1.png", AddOptions{})
	require.NoError(t, err)

	assert.Equal(t, "assets/images/Fig 1.png", entry.Path)
	assert.Equal(t, assetpath.CategoryImages, entry.Category)
	assert.Equal(t, "image/png", entry.MimeType)

	expected, err := integrity.Compute("sha256", data)
	require.NoError(t, err)
	assert.Equal(t, expected, entry.Checksum)
	assert.True(t, s.Has(entry.Path))
}

func TestAddFromBytes_CategoryOverride(t *testing.T) {
	s := NewStore()
	entry, err := s.AddFromBytes(context.Background(), []byte("x"), "notes.txt", AddOptions{Category: assetpath.CategoryOther})
	require.NoError(t, err)
	assert.Equal(t, "assets/other/notes.txt", entry.Path)

	entry, err = s.AddFromBytes(context.Background(), []byte("x"), "blob.unknownext", AddOptions{})
	require.NoError(t, err)
	assert.Equal(t, "assets/other/blob.unknownext", entry.Path)
}

func TestAddFromBytes_Errors(t *testing.T) {
	s := NewStore()

	_, err := s.AddFromBytes(context.Background(), []byte("x"), "a.png", AddOptions{Algorithm: "crc32"})
	assert.ErrorIs(t, err, integrity.ErrUnsupportedAlgorithm)

	_, err = s.AddFromBytes(context.Background(), []byte("x"), "..", AddOptions{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.AddFromBytes(ctx, []byte("x"), "a.png", AddOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 0, s.Len())
}

func TestLookups(t *testing.T) {
	s := NewStore()
	s.Put("assets/data/q.csv", []byte("a,b\n1,2\n"))

	text, ok := s.GetString("assets/data/q.csv")
	require.True(t, ok)
	assert.Equal(t, "a,b\n1,2\n", text)

	r, mime, ok := s.Blob("assets/data/q.csv")
	require.True(t, ok)
	assert.Equal(t, "text/csv", mime)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(body))

	_, ok = s.Get("assets/data/missing.csv")
	assert.False(t, ok)
	_, ok = s.GetString("assets/data/missing.csv")
	assert.False(t, ok)
	_, _, ok = s.Blob("assets/data/missing.csv")
	assert.False(t, ok)
}

func TestOrdering(t *testing.T) {
	s := NewStore()
	s.Put("styles/theme.css", []byte("body{}"))
	s.Put("assets/images/z.png", []byte("z"))
	s.Put("assets/images/a.png", []byte("a"))
	s.Put("assets/images/z.png", []byte("zz"))

	assert.Equal(t, []string{"styles/theme.css", "assets/images/z.png", "assets/images/a.png"}, s.Paths())
	assert.Equal(t, []string{"assets/images/a.png", "assets/images/z.png", "styles/theme.css"}, s.SortedPaths())
	assert.Equal(t, []string{"assets/images/a.png", "assets/images/z.png"}, s.AssetPaths())
	assert.Equal(t, []string{"styles/theme.css"}, s.PathsWithPrefix("styles/"))
	assert.Equal(t, int64(9), s.TotalSize())
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.Put("assets/images/a.png", []byte("a"))
	s.Put("assets/images/b.png", []byte("b"))

	assert.True(t, s.Remove("assets/images/a.png"))
	assert.False(t, s.Remove("assets/images/a.png"))
	assert.Equal(t, []string{"assets/images/b.png"}, s.Paths())
}
