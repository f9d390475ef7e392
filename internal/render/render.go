// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package render turns container content into HTML through a pluggable markdown renderer
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/tejzpr/mdx-mcp/internal/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// AssetResolver maps an archive path referenced from markdown to a URL the output can use
type AssetResolver interface {
	ResolveAsset(path string) (string, bool)
}

// Renderer converts markdown to HTML
type Renderer interface {
	Render(ctx context.Context, source string, assets AssetResolver) (string, error)
}

var resolverKey = parser.NewContextKey()

// attrRegex matches src and poster attributes left in raw HTML
var attrRegex = regexp.MustCompile(`\b(src|poster)="([^"]+)"`)

// assetTransformer rewrites image destinations through the resolver stored in the parse context
type assetTransformer struct{}

func (assetTransformer) Transform(node *ast.Document, _ text.Reader, pc parser.Context) {
	resolver, _ := pc.Get(resolverKey).(AssetResolver)
	if resolver == nil {
		return
	}
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			if url, ok := resolve(resolver, string(img.Destination)); ok {
				img.Destination = []byte(url)
			}
		}
		return ast.WalkContinue, nil
	})
}

func resolve(resolver AssetResolver, target string) (string, bool) {
	if markdown.IsExternal(target) {
		return "", false
	}
	return resolver.ResolveAsset(markdown.NormalizeTarget(target))
}

// Goldmark renders CommonMark with the GFM extensions
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates a goldmark-backed renderer. Raw HTML passes through; sanitizing is the caller's job.
func NewGoldmark() *Goldmark {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(assetTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Goldmark{md: md}
}

// Render converts source, rewriting local asset references when assets is not nil
func (g *Goldmark) Render(ctx context.Context, source string, assets AssetResolver) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pc := parser.NewContext()
	if assets != nil {
		pc.Set(resolverKey, assets)
	}

	var buf bytes.Buffer
	if err := g.md.Convert([]byte(source), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	out := buf.String()
	if assets != nil {
		out = attrRegex.ReplaceAllStringFunc(out, func(m string) string {
			parts := attrRegex.FindStringSubmatch(m)
			if url, ok := resolve(assets, parts[2]); ok {
				return fmt.Sprintf(`%s="%s"`, parts[1], url)
			}
			return m
		})
	}
	return out, nil
}
