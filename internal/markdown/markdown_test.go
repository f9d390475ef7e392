// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WithFrontmatter(t *testing.T) {
	content := `---
title: Quarterly Report
description: Numbers and charts
authors:
  - name: Ada
    email: ada@example.org
keywords: [finance]
tags: [finance, q3]
language: en-GB
---

# Quarterly Report

Body text.
`

	fm, body, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", fm.Title)
	assert.Equal(t, "Numbers and charts", fm.Description)
	require.Len(t, fm.Authors, 1)
	assert.Equal(t, "ada@example.org", fm.Authors[0].Email)
	assert.Equal(t, []string{"finance", "q3"}, fm.AllKeywords())
	assert.Equal(t, "en-GB", fm.Language)
	assert.Equal(t, "# Quarterly Report\n\nBody text.\n", body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	fm, body, err := Parse("# Just Content\n")
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.Equal(t, "# Just Content\n", body)
}

func TestParse_Unclosed(t *testing.T) {
	_, _, err := Parse("---\ntitle: x\n\n# body")
	assert.Error(t, err)
}

func TestRender_RoundTrip(t *testing.T) {
	fm := &Frontmatter{Title: "T", Keywords: []string{"a", "b"}}
	out, err := Render(fm, "# T\n\ntext")
	require.NoError(t, err)

	parsed, body, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, fm, parsed)
	assert.Equal(t, "# T\n\ntext\n", body)
}

func TestExtractReferences(t *testing.T) {
	content := `# Doc

![Diagram](assets/images/structure.svg "Structure")
See [the data](assets/data/q.csv) and [site](https://example.org).

::data[Results]{src="assets/data/q.csv" type="chart"}
::model[Part]{src="assets/models/part.gltf" preview="assets/images/preview.svg"}
<video src="assets/video/clip.mp4" poster="assets/images/poster.png"></video>

` + "```" + `
![ignored](assets/images/in-code.png)
` + "```" + `
![remote](https://example.org/x.png)
`

	refs := ExtractReferences(content, false)
	var targets []string
	for _, r := range refs {
		targets = append(targets, r.Target)
	}
	assert.Equal(t, []string{
		"assets/images/structure.svg",
		"assets/data/q.csv",
		"assets/models/part.gltf",
		"assets/images/preview.svg",
		"assets/video/clip.mp4",
		"assets/images/poster.png",
		"https://example.org/x.png",
	}, targets)
	assert.Equal(t, RefImage, refs[0].Kind)
	assert.Equal(t, 3, refs[0].Line)
	assert.Equal(t, RefDirective, refs[1].Kind)
	assert.Equal(t, RefHTML, refs[4].Kind)

	withLinks := ExtractReferences(content, true)
	assert.Greater(t, len(withLinks), len(refs))
}

func TestLocalReferences(t *testing.T) {
	content := `![a](./assets/images/my%20fig.png#frag)
![b](assets/images/my%20fig.png)
![c](data:image/png;base64,AAAA)
![d](http://example.org/d.png)
`
	assert.Equal(t, []string{"assets/images/my fig.png"}, LocalReferences(content))
}

func TestIsExternal(t *testing.T) {
	assert.True(t, IsExternal("https://x"))
	assert.True(t, IsExternal("HTTP://x"))
	assert.True(t, IsExternal("data:text/plain,hi"))
	assert.True(t, IsExternal("#section"))
	assert.False(t, IsExternal("assets/images/a.png"))
}

func TestFirstHeading(t *testing.T) {
	assert.Equal(t, "Hello World", FirstHeading("intro\n\n# Hello World #\n## Sub"))
	assert.Equal(t, "", FirstHeading("## Only sub"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "my-document-v2", Slug("My Document: v2!"))
	assert.Equal(t, "document", Slug("!!!"))
	assert.Equal(t, "Title", SanitizeTitle("  Ti\x00tle \n"))
}
