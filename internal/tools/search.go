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
	"github.com/tejzpr/mdx-mcp/internal/catalog"
)

// NewSearchTool creates the mdx_search tool definition
func NewSearchTool() mcp.Tool {
	return mcp.NewTool("mdx_search",
		mcp.WithDescription("Search the catalog of indexed MDX containers by title, description, keywords or authors. Use invalid_only to find containers that failed validation, or path to list the issues recorded for one container."),
		mcp.WithString("keyword",
			mcp.Description("Text to look for. Empty lists every indexed container."),
		),
		mcp.WithBoolean("invalid_only",
			mcp.Description("Only return containers that failed validation"),
		),
		mcp.WithString("path",
			mcp.Description("Show recorded validation issues for this indexed container"),
		),
		mcp.WithBoolean("reindex",
			mcp.Description("Re-scan the catalog directory before searching"),
		),
	)
}

// SearchHandler handles the mdx_search tool
func SearchHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !ctx.HasCatalog() {
			return mcp.NewToolResultError("catalog is not enabled"), nil
		}
		keyword := request.GetString("keyword", "")
		invalidOnly := request.GetBool("invalid_only", false)
		path := request.GetString("path", "")

		if request.GetBool("reindex", false) {
			if _, err := catalog.Index(c, ctx.DB, ctx.Config.Catalog.Directory, catalog.Options{
				Validator: ctx.Validator,
				Logger:    ctx.Logger,
			}); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to re-index: %v", err)), nil
			}
		}

		if path != "" {
			issues, err := catalog.IssuesFor(ctx.DB, path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(FormatIssues(path, issues)), nil
		}

		var docs []catalog.Document
		var err error
		switch {
		case invalidOnly:
			docs, err = catalog.Invalid(ctx.DB)
		case keyword != "":
			docs, err = catalog.Search(ctx.DB, keyword)
		default:
			docs, err = catalog.List(ctx.DB)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if invalidOnly && keyword != "" {
			docs = FilterByKeyword(docs, keyword)
		}

		return mcp.NewToolResultText(FormatDocuments(docs)), nil
	}
}

// FilterByKeyword keeps the rows whose title, description, keywords or authors contain keyword
func FilterByKeyword(docs []catalog.Document, keyword string) []catalog.Document {
	keyword = strings.ToLower(keyword)
	var out []catalog.Document
	for _, d := range docs {
		haystack := strings.ToLower(strings.Join([]string{d.Title, d.Description, d.Keywords, d.Authors}, " "))
		if strings.Contains(haystack, keyword) {
			out = append(out, d)
		}
	}
	return out
}

// FormatDocuments renders catalog rows as a numbered markdown list
func FormatDocuments(docs []catalog.Document) string {
	if len(docs) == 0 {
		return "No containers found.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Found %d container(s)\n\n", len(docs)))
	for i, d := range docs {
		status := "valid"
		if !d.Valid {
			status = fmt.Sprintf("invalid, %d error(s)", d.ErrorCount)
		}
		title := d.Title
		if title == "" {
			title = "(untitled)"
		}
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s)\n", i+1, title, status))
		sb.WriteString(fmt.Sprintf("   Path: `%s` | %s | %d asset(s)\n", d.Path, humanize.IBytes(uint64(d.SizeBytes)), d.AssetCount))
		if d.Authors != "" {
			sb.WriteString(fmt.Sprintf("   Authors: %s\n", d.Authors))
		}
	}
	return sb.String()
}

// FormatIssues renders the issues recorded for one indexed container
func FormatIssues(path string, issues []catalog.Issue) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Issues for `%s`\n\n", path))
	if len(issues) == 0 {
		sb.WriteString("No issues recorded.\n")
		return sb.String()
	}
	for _, i := range issues {
		if i.Path != "" {
			sb.WriteString(fmt.Sprintf("- [%s] %s %s: %s\n", i.Severity, i.Code, i.Path, i.Message))
		} else {
			sb.WriteString(fmt.Sprintf("- [%s] %s %s\n", i.Severity, i.Code, i.Message))
		}
	}
	return sb.String()
}
