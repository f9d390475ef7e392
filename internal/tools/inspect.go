// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/mdx-mcp/internal/container"
)

// NewInspectTool creates the mdx_inspect tool definition
func NewInspectTool() mcp.Tool {
	return mcp.NewTool("mdx_inspect",
		mcp.WithDescription("Show an MDX container's metadata: title, id, authors, timestamps, the asset inventory, version count and annotation count. Use before reading or editing a container."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Container location: a local file path or s3://bucket/key"),
		),
	)
}

// InspectHandler handles the mdx_inspect tool
func InspectHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		doc, err := ctx.openDocument(c, path, "")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(Describe(doc)), nil
	}
}

// Describe formats a container's metadata as markdown
func Describe(doc *container.Document) string {
	m := doc.Manifest
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", m.Document.Title))
	sb.WriteString(fmt.Sprintf("**ID**: `%s`\n", m.Document.ID))
	sb.WriteString(fmt.Sprintf("**Format Version**: %s\n", m.MdxVersion))
	if m.Document.Version != "" {
		sb.WriteString(fmt.Sprintf("**Document Version**: %s\n", m.Document.Version))
	}
	if m.Document.Description != "" {
		sb.WriteString(fmt.Sprintf("**Description**: %s\n", m.Document.Description))
	}
	if len(m.Document.Authors) > 0 {
		var names []string
		for _, a := range m.Document.Authors {
			names = append(names, a.Name)
		}
		sb.WriteString(fmt.Sprintf("**Authors**: %s\n", strings.Join(names, ", ")))
	}
	if len(m.Document.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("**Keywords**: %s\n", strings.Join(m.Document.Keywords, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Created**: %s\n", m.Document.Created))
	sb.WriteString(fmt.Sprintf("**Modified**: %s\n", m.Document.Modified))
	sb.WriteString(fmt.Sprintf("**Entry Point**: %s\n", m.EntryPoint()))
	sb.WriteString(fmt.Sprintf("**Versions**: %d\n", doc.History.Len()))
	sb.WriteString(fmt.Sprintf("**Annotations**: %d\n\n", doc.Annotations.Len()))

	all := m.Assets.All()
	sb.WriteString(fmt.Sprintf("## Assets (%d)\n\n", len(all)))
	if len(all) == 0 {
		sb.WriteString("No assets.\n")
		return sb.String()
	}
	for _, a := range all {
		base := a.Base()
		size := "unknown size"
		if base.SizeBytes != nil {
			size = humanize.IBytes(uint64(*base.SizeBytes))
		}
		sb.WriteString(fmt.Sprintf("- `%s` (%s, %s, %s)\n", base.Path, a.Category(), base.MimeType, size))
	}
	return sb.String()
}
