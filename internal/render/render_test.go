// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package render

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
)

type mapResolver map[string]string

func (m mapResolver) ResolveAsset(p string) (string, bool) {
	url, ok := m[p]
	return url, ok
}

func TestGoldmark_Render(t *testing.T) {
	g := NewGoldmark()
	out, err := g.Render(context.Background(), "# Title\n\n![fig](./assets/images/a.png)\n\n![remote](https://example.com/b.png)\n", mapResolver{
		"assets/images/a.png": "/files/a.png",
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 id="title">Title</h1>`)
	assert.Contains(t, out, `src="/files/a.png"`)
	assert.Contains(t, out, `src="https://example.com/b.png"`)
}

func TestGoldmark_RewritesRawHTML(t *testing.T) {
	g := NewGoldmark()
	out, err := g.Render(context.Background(), "<video src=\"assets/video/clip.mp4\" controls></video>\n", mapResolver{
		"assets/video/clip.mp4": "/files/clip.mp4",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `src="/files/clip.mp4"`)
}

func TestGoldmark_NilResolverAndCancel(t *testing.T) {
	g := NewGoldmark()
	out, err := g.Render(context.Background(), "![fig](assets/images/a.png)", nil)
	require.NoError(t, err)
	assert.Contains(t, out, `src="assets/images/a.png"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Render(ctx, "text", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func newDoc(t *testing.T, content string) *container.Document {
	t.Helper()
	doc, err := container.Create("Render <Test>", container.CreateOptions{Content: content})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	_, err = doc.AddAsset(context.Background(), buf.Bytes(), "dot.png", container.AssetOptions{AltText: "dot"})
	require.NoError(t, err)
	return doc
}

func TestToHTML_InlinesAndSanitizes(t *testing.T) {
	doc := newDoc(t, "# Hello\n\n![dot](assets/images/dot.png)\n\n<script>alert(1)</script>\n")
	_, err := doc.AddStyle([]byte("body { color: red; }"), "theme.css", true)
	require.NoError(t, err)

	out, err := ToHTML(context.Background(), doc, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Render &lt;Test&gt;</title>")
	assert.Contains(t, out, `lang="en-US"`)
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, "body { color: red; }")
	assert.NotContains(t, out, "<script>")
}

func TestToHTML_AllowScripts(t *testing.T) {
	doc := newDoc(t, "<script>alert(1)</script>\n")
	doc.Manifest.SetSecurity(&manifest.Security{AllowScripts: true})

	out, err := ToHTML(context.Background(), doc, NewGoldmark(), Options{Sanitize: true})
	require.NoError(t, err)
	assert.Contains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, "<!DOCTYPE html>")
}

func TestToHTML_WithoutInlining(t *testing.T) {
	doc := newDoc(t, "![dot](assets/images/dot.png)\n")
	out, err := ToHTML(context.Background(), doc, nil, Options{Sanitize: true})
	require.NoError(t, err)
	assert.Contains(t, out, `src="assets/images/dot.png"`)
	assert.NotContains(t, out, "data:")
}

func TestDataURIResolver(t *testing.T) {
	doc := newDoc(t, "")
	r := DataURIResolver{Doc: doc}

	url, ok := r.ResolveAsset("assets/images/dot.png")
	require.True(t, ok)
	assert.Contains(t, url, "data:image/png;base64,")

	_, ok = r.ResolveAsset("assets/images/none.png")
	assert.False(t, ok)
}
