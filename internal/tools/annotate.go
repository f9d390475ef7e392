// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tejzpr/mdx-mcp/internal/annotation"
)

// NewAnnotateTool creates the mdx_annotate tool definition
func NewAnnotateTool() mcp.Tool {
	return mcp.NewTool("mdx_annotate",
		mcp.WithDescription("Read and write review annotations stored inside an MDX container. Add a comment, highlight, suggested edit, question or bookmark on a span of text; list annotations; change an annotation's status; or reply to one."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Container location: a local file path or s3://bucket/key"),
		),
		mcp.WithString("action",
			mcp.Description("list (default), add, status or reply"),
		),
		mcp.WithString("motivation",
			mcp.Description("commenting, highlighting, editing, questioning or bookmarking (add; filter for list)"),
		),
		mcp.WithString("target",
			mcp.Description("Exact text being annotated (add)"),
		),
		mcp.WithString("body",
			mcp.Description("Annotation or reply text (add, reply)"),
		),
		mcp.WithString("author",
			mcp.Description("Name of the person annotating (add, reply)"),
		),
		mcp.WithString("id",
			mcp.Description("Annotation id (status, reply)"),
		),
		mcp.WithString("status",
			mcp.Description("New status (status); filter for list"),
		),
	)
}

// AnnotateHandler handles the mdx_annotate tool
func AnnotateHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		action := request.GetString("action", "list")
		motivation := annotation.Motivation(request.GetString("motivation", ""))
		author := request.GetString("author", "anonymous")
		id := request.GetString("id", "")
		status := request.GetString("status", "")

		release, err := ctx.lockFor(c, path, action != "list")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer release()

		doc, err := ctx.openDocument(c, path, "")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var message string
		switch action {
		case "list":
			return mcp.NewToolResultText(FormatAnnotations(doc.Annotations.Filter(motivation, status))), nil

		case "add":
			if motivation == "" {
				motivation = annotation.MotivationCommenting
			}
			target, err := request.RequireString("target")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			newID, err := doc.AddAnnotation(motivation, annotation.Person(author), target,
				request.GetString("body", ""), annotation.Options{})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to add annotation: %v", err)), nil
			}
			message = fmt.Sprintf("Annotation added: %s", newID)

		case "status":
			if id == "" || status == "" {
				return mcp.NewToolResultError("id and status are required"), nil
			}
			if !doc.UpdateAnnotationStatus(id, status) {
				return mcp.NewToolResultError(fmt.Sprintf("annotation not found: %s", id)), nil
			}
			message = fmt.Sprintf("Annotation %s is now %s", id, status)

		case "reply":
			body, err := request.RequireString("body")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if id == "" {
				return mcp.NewToolResultError("id is required"), nil
			}
			replyID, ok := doc.AddAnnotationReply(id, annotation.Person(author), body)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("annotation not found: %s", id)), nil
			}
			message = fmt.Sprintf("Reply added: %s", replyID)

		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown action %q (want list, add, status or reply)", action)), nil
		}

		if err := ctx.saveDocument(c, path, doc); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ctx.Logger.Info("annotations updated", "path", path, "action", action)
		return mcp.NewToolResultText(message), nil
	}
}

// FormatAnnotations renders annotations as markdown
func FormatAnnotations(list []*annotation.Annotation) string {
	if len(list) == 0 {
		return "No annotations found.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Annotations (%d)\n\n", len(list)))
	for _, a := range list {
		sb.WriteString(fmt.Sprintf("### %s\n", a.ID))
		sb.WriteString(fmt.Sprintf("**Motivation**: %s | **Status**: %s\n", a.Motivation, a.Status))
		sb.WriteString(fmt.Sprintf("**By**: %s on %s\n", a.Creator.Name, a.Created))
		if a.Target.Selector != nil && a.Target.Selector.Exact != "" {
			sb.WriteString(fmt.Sprintf("> %s\n", a.Target.Selector.Exact))
		}
		if a.Body.Value != "" {
			sb.WriteString(fmt.Sprintf("\n%s\n", a.Body.Value))
		}
		for _, r := range a.Replies {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", r.Creator.Name, r.Body.Value))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
