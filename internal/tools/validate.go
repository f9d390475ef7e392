// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// NewValidateTool creates the mdx_validate tool definition
func NewValidateTool() mcp.Tool {
	return mcp.NewTool("mdx_validate",
		mcp.WithDescription("Check an MDX container for structural problems, manifest errors, missing or corrupted assets, orphaned files and broken references. Returns a report of errors, warnings and info."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Container location: a local file path or s3://bucket/key"),
		),
		mcp.WithString("format",
			mcp.Description("Report format: text (default), json or yaml"),
		),
	)
}

// ValidateHandler handles the mdx_validate tool
func ValidateHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		format := request.GetString("format", report.FormatText)

		data, err := ctx.readArchive(c, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := ctx.Validator.Validate(data)
		ctx.Logger.Info("container validated", "path", path, "valid", result.Valid,
			"errors", len(result.Errors), "warnings", len(result.Warnings))

		out, err := result.Encode(format)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if format == report.FormatText {
			out = fmt.Sprintf("# Validation: %s\n\n%s", path, out)
		}
		return mcp.NewToolResultText(out), nil
	}
}
