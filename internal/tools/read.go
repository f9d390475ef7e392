// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/mdx-mcp/internal/render"
)

// NewReadTool creates the mdx_read tool definition
func NewReadTool() mcp.Tool {
	return mcp.NewTool("mdx_read",
		mcp.WithDescription("Read the markdown content of an MDX container, optionally at an earlier version or rendered to a standalone HTML page with assets inlined."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Container location: a local file path or s3://bucket/key"),
		),
		mcp.WithString("version",
			mcp.Description("Read the content recorded for this version instead of the current content"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or html"),
		),
		mcp.WithString("repo",
			mcp.Description("Git repository used to resolve reference snapshots"),
		),
	)
}

// ReadHandler handles the mdx_read tool
func ReadHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		version := request.GetString("version", "")
		format := request.GetString("format", "markdown")
		repo := request.GetString("repo", "")

		if format != "markdown" && format != "html" {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q (want markdown or html)", format)), nil
		}
		if format == "html" && version != "" {
			return mcp.NewToolResultError("html output is only available for the current content"), nil
		}

		doc, err := ctx.openDocument(c, path, repo)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if version != "" {
			content, err := doc.VersionContent(c, version)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to read version %s: %v", version, err)), nil
			}
			return mcp.NewToolResultText(content), nil
		}

		if format == "html" {
			opts := render.DefaultOptions()
			opts.Sanitize = ctx.Config.Render.Sanitize
			page, err := render.ToHTML(c, doc, nil, opts)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to render: %v", err)), nil
			}
			return mcp.NewToolResultText(page), nil
		}

		return mcp.NewToolResultText(doc.Content()), nil
	}
}
