// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/history"
	"github.com/tejzpr/mdx-mcp/internal/tools"
)

func newVersionCmd(a *app) *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Manage the version history stored in a container",
	}
	cmd.PersistentFlags().StringVar(&repo, "repo", "", "Git repository used to resolve reference snapshots")
	cmd.AddCommand(
		newVersionCreateCmd(a, &repo),
		newVersionListCmd(a, &repo),
		newVersionShowCmd(a, &repo),
		newVersionRestoreCmd(a, &repo),
	)
	return cmd
}

func newVersionCreateCmd(a *app, repo *string) *cobra.Command {
	var (
		version string
		message string
		author  string
		email   string
		summary string
		tags    []string
		diff    bool
		ref     string
		file    string
	)
	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Record the current content as a new version",
		Long: `Record the current content as a new version. By default the full content is
stored; --diff stores a patch against the latest version and --ref records a
reference into external version control instead of any content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if author == "" {
				author = a.cfg.History.GitAuthor
			}
			if email == "" {
				email = a.cfg.History.GitEmail
			}
			doc, err := a.open(cmd.Context(), args[0], *repo)
			if err != nil {
				return err
			}

			in := container.VersionInput{
				Version: version,
				Message: message,
				Author:  history.Author{Name: author, Email: email},
				Tags:    tags,
			}
			if summary != "" {
				in.Changes = &history.Changes{Summary: summary}
			}

			var entry *history.Entry
			switch {
			case ref != "":
				entry, err = doc.CreateReferenceVersion(in, file, ref)
			case diff:
				entry, err = doc.CreateDiffVersion(cmd.Context(), in)
			default:
				entry, err = doc.CreateVersion(in)
			}
			if err != nil {
				return fmt.Errorf("failed to create version: %w", err)
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			a.logger.Info("version created", "path", args[0], "version", entry.Version, "snapshot", entry.Snapshot.Type)
			fmt.Fprintf(cmd.OutOrStdout(), "Version %s created (%s snapshot)\n", entry.Version, entry.Snapshot.Type)
			return nil
		},
	}
	cmd.Flags().StringVarP(&version, "version", "v", "", "Version string, e.g. 1.1.0")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Version message")
	cmd.Flags().StringVar(&author, "author", "", "Author name (default from config)")
	cmd.Flags().StringVar(&email, "email", "", "Author email (default from config)")
	cmd.Flags().StringVar(&summary, "summary", "", "Change summary")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Version tag (repeatable)")
	cmd.Flags().BoolVar(&diff, "diff", false, "Store a patch against the latest version")
	cmd.Flags().StringVar(&ref, "ref", "", "Record a reference snapshot at this git revision")
	cmd.Flags().StringVar(&file, "file", "", "File inside the repository for --ref (default: entry point)")
	cmd.MarkFlagsMutuallyExclusive("diff", "ref")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func newVersionListCmd(a *app, repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List recorded versions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], *repo)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tools.FormatVersions(doc))
			return nil
		},
	}
}

func newVersionShowCmd(a *app, repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path> <version>",
		Short: "Print the content recorded for a version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], *repo)
			if err != nil {
				return err
			}
			content, err := doc.VersionContent(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

func newVersionRestoreCmd(a *app, repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <path> <version>",
		Short: "Replace the current content with a version's content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], *repo)
			if err != nil {
				return err
			}
			if err := doc.RestoreVersion(cmd.Context(), args[1]); err != nil {
				return err
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Content restored from version %s\n", args[1])
			return nil
		},
	}
}
