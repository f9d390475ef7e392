// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/history"
)

// History actions
const (
	historyList    = "list"
	historyCreate  = "create"
	historyRestore = "restore"
)

// NewHistoryTool creates the mdx_history tool definition
func NewHistoryTool() mcp.Tool {
	return mcp.NewTool("mdx_history",
		mcp.WithDescription("Work with the version history stored inside an MDX container. List versions, record the current content as a new version, or restore the content of an earlier version."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Container location: a local file path or s3://bucket/key"),
		),
		mcp.WithString("action",
			mcp.Description("list (default), create or restore"),
		),
		mcp.WithString("version",
			mcp.Description("Version string to create or restore, e.g. 1.1.0"),
		),
		mcp.WithString("message",
			mcp.Description("Version message (create)"),
		),
		mcp.WithString("author",
			mcp.Description("Version author name (create)"),
		),
		mcp.WithString("email",
			mcp.Description("Version author email (create)"),
		),
		mcp.WithBoolean("diff",
			mcp.Description("Store the new version as a patch against the latest version instead of a full copy (create)"),
		),
		mcp.WithString("repo",
			mcp.Description("Git repository used to resolve reference snapshots"),
		),
	)
}

// HistoryHandler handles the mdx_history tool
func HistoryHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		action := request.GetString("action", historyList)
		version := request.GetString("version", "")

		release, err := ctx.lockFor(c, path, action != historyList)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer release()

		doc, err := ctx.openDocument(c, path, request.GetString("repo", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		switch action {
		case historyList:
			return mcp.NewToolResultText(FormatVersions(doc)), nil

		case historyCreate:
			if version == "" {
				return mcp.NewToolResultError("version is required to create a version"), nil
			}
			in := container.VersionInput{
				Version: version,
				Message: request.GetString("message", ""),
				Author: history.Author{
					Name:  request.GetString("author", ctx.Config.History.GitAuthor),
					Email: request.GetString("email", ""),
				},
			}
			var entry *history.Entry
			if request.GetBool("diff", false) {
				entry, err = doc.CreateDiffVersion(c, in)
			} else {
				entry, err = doc.CreateVersion(in)
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to create version: %v", err)), nil
			}
			if err := ctx.saveDocument(c, path, doc); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ctx.Logger.Info("version created", "path", path, "version", entry.Version, "snapshot", entry.Snapshot.Type)
			return mcp.NewToolResultText(fmt.Sprintf("Version %s created (%s snapshot)", entry.Version, entry.Snapshot.Type)), nil

		case historyRestore:
			if version == "" {
				return mcp.NewToolResultError("version is required to restore a version"), nil
			}
			if err := doc.RestoreVersion(c, version); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := ctx.saveDocument(c, path, doc); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ctx.Logger.Info("version restored", "path", path, "version", version)
			return mcp.NewToolResultText(fmt.Sprintf("Content restored from version %s", version)), nil
		}

		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q (want list, create or restore)", action)), nil
	}
}

// FormatVersions renders the version log of doc, newest first
func FormatVersions(doc *container.Document) string {
	versions := doc.Versions()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# History for '%s'\n\n", doc.Title()))
	if len(versions) == 0 {
		sb.WriteString("No versions recorded.\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("**Current Version**: %s\n\n", doc.History.CurrentVersion))

	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		sb.WriteString(fmt.Sprintf("### %s\n", v.Version))
		sb.WriteString(fmt.Sprintf("**When**: %s\n", v.Timestamp))
		if v.Author.Name != "" {
			sb.WriteString(fmt.Sprintf("**Author**: %s\n", v.Author.Name))
		}
		if v.Message != "" {
			sb.WriteString(fmt.Sprintf("**Message**: %s\n", v.Message))
		}
		sb.WriteString(fmt.Sprintf("**Snapshot**: %s", v.Snapshot.Type))
		if v.Snapshot.BaseVersion != "" {
			sb.WriteString(fmt.Sprintf(" (base %s)", v.Snapshot.BaseVersion))
		}
		if v.Snapshot.Ref != "" {
			sb.WriteString(fmt.Sprintf(" (ref %s)", v.Snapshot.Ref))
		}
		sb.WriteString("\n")
		if parent := v.Parent(); parent != "" {
			sb.WriteString(fmt.Sprintf("**Parent**: %s\n", parent))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
