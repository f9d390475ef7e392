// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/annotation"
	"github.com/tejzpr/mdx-mcp/internal/tools"
)

func newAnnotateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Read and write review annotations",
	}
	cmd.AddCommand(
		newAnnotateAddCmd(a),
		newAnnotateListCmd(a),
		newAnnotateStatusCmd(a),
		newAnnotateReplyCmd(a),
	)
	return cmd
}

func newAnnotateAddCmd(a *app) *cobra.Command {
	var (
		motivation string
		author     string
		body       string
		prefix     string
		suffix     string
	)
	cmd := &cobra.Command{
		Use:   "add <path> <target-text>",
		Short: "Annotate a span of text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			id, err := doc.AddAnnotation(annotation.Motivation(motivation), annotation.Person(author), args[1], body,
				annotation.Options{Prefix: prefix, Suffix: suffix})
			if err != nil {
				return fmt.Errorf("failed to add annotation: %w", err)
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Annotation added: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&motivation, "motivation", "m", string(annotation.MotivationCommenting),
		"commenting, highlighting, editing, questioning or bookmarking")
	cmd.Flags().StringVar(&author, "author", "anonymous", "Name of the person annotating")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Annotation text")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Text immediately before the target")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Text immediately after the target")
	return cmd
}

func newAnnotateListCmd(a *app) *cobra.Command {
	var motivation, status string
	cmd := &cobra.Command{
		Use:   "list <path>",
		Short: "List annotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			list := doc.Annotations.Filter(annotation.Motivation(motivation), status)
			fmt.Fprint(cmd.OutOrStdout(), tools.FormatAnnotations(list))
			return nil
		},
	}
	cmd.Flags().StringVarP(&motivation, "motivation", "m", "", "Only this motivation")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only this status")
	return cmd
}

func newAnnotateStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <path> <id> <status>",
		Short: "Change an annotation's status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			id, status := args[1], args[2]
			if !doc.UpdateAnnotationStatus(id, status) {
				return fmt.Errorf("annotation not found: %s", id)
			}
			if ann, ok := doc.Annotations.Find(id); ok && !annotation.IsValidStatus(ann.Motivation, status) {
				a.logger.Warn("status is not in the lifecycle of this motivation", "id", id, "motivation", ann.Motivation, "status", status)
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Annotation %s is now %s\n", id, status)
			return nil
		},
	}
}

func newAnnotateReplyCmd(a *app) *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "reply <path> <id> <body>",
		Short: "Reply to an annotation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			replyID, ok := doc.AddAnnotationReply(args[1], annotation.Person(author), args[2])
			if !ok {
				return fmt.Errorf("annotation not found: %s", args[1])
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reply added: %s\n", replyID)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "anonymous", "Name of the person replying")
	return cmd
}
