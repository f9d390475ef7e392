// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"path"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/container"
)

// Options controls ToHTML
type Options struct {
	// Sanitize strips unsafe HTML unless the manifest allows scripts
	Sanitize bool
	// InlineAssets embeds archive assets as data: URIs
	InlineAssets bool
	// Standalone wraps the body in a full HTML page
	Standalone bool
}

// DefaultOptions sanitizes, inlines and wraps
func DefaultOptions() Options {
	return Options{Sanitize: true, InlineAssets: true, Standalone: true}
}

// DataURIResolver resolves archive paths to base64 data URIs
type DataURIResolver struct {
	Doc *container.Document
}

// ResolveAsset implements AssetResolver. Paths are tried as given and relative to the entry point.
func (r DataURIResolver) ResolveAsset(p string) (string, bool) {
	candidates := []string{p}
	if dir := path.Dir(r.Doc.Manifest.EntryPoint()); dir != "." {
		candidates = append(candidates, path.Join(dir, p))
	}
	for _, c := range candidates {
		data, ok := r.Doc.Assets.Bytes(c)
		if !ok {
			continue
		}
		mime := assetpath.MimeTypeForFilename(c)
		return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), true
	}
	return "", false
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- range .Styles}}
<style>{{.}}</style>
{{- end}}
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

type page struct {
	Lang   string
	Title  string
	Styles []template.CSS
	Body   template.HTML
}

// Policy returns the sanitizing policy applied to rendered bodies
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowElements("video", "audio", "source", "figure", "figcaption")
	p.AllowAttrs("src", "poster", "controls", "type").OnElements("video", "audio", "source")
	p.AllowAttrs("class").Globally()
	return p
}

// ToHTML renders the document content. Theme and custom stylesheets stored in the archive
// are inlined into the page head.
func ToHTML(ctx context.Context, doc *container.Document, r Renderer, opts Options) (string, error) {
	if r == nil {
		r = NewGoldmark()
	}

	var resolver AssetResolver
	if opts.InlineAssets {
		resolver = DataURIResolver{Doc: doc}
	}

	body, err := r.Render(ctx, doc.Content(), resolver)
	if err != nil {
		return "", err
	}
	if opts.Sanitize && !doc.Manifest.AllowsScripts() {
		body = Policy().Sanitize(body)
	}
	if !opts.Standalone {
		return body, nil
	}

	p := page{
		Lang:  doc.Manifest.Document.Language,
		Title: doc.Title(),
		Body:  template.HTML(body),
	}
	if styles := doc.Manifest.Styles; styles != nil {
		for _, sheet := range append([]string{styles.Theme}, styles.Custom...) {
			if css, ok := doc.Assets.GetString(sheet); ok {
				p.Styles = append(p.Styles, template.CSS(css))
			}
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}
