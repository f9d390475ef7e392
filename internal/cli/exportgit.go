// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/git"
)

func newExportGitCmd(a *app) *cobra.Command {
	var (
		tag  bool
		file string
	)
	cmd := &cobra.Command{
		Use:   "export-git <path> <repo>",
		Short: "Replay the version history as commits in a git repository",
		Long: `Replay every version, oldest first, as a commit in <repo>. The repository is
created on the configured default branch if it does not exist. Versions whose
content cannot be resolved are skipped and reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			repo, err := git.OpenOrInit(args[1], a.cfg.History.DefaultBranch)
			if err != nil {
				return err
			}
			res, err := git.ExportHistory(cmd.Context(), doc, repo, git.ExportOptions{
				FileName: file,
				Author:   a.cfg.History.GitAuthor,
				Email:    a.cfg.History.GitEmail,
				Tag:      tag,
			})
			if err != nil {
				return fmt.Errorf("failed to export history: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, v := range res.Exported {
				short := v.Commit
				if len(short) > 7 {
					short = short[:7]
				}
				if v.Tag != "" {
					fmt.Fprintf(out, "%s %s (%s)\n", short, v.Version, v.Tag)
				} else {
					fmt.Fprintf(out, "%s %s\n", short, v.Version)
				}
			}
			for _, e := range res.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", e)
			}
			fmt.Fprintf(out, "Exported %d version(s), skipped %d\n", len(res.Exported), len(res.Skipped))
			return nil
		},
	}
	cmd.Flags().BoolVar(&tag, "tag", false, "Tag each commit as v<version>")
	cmd.Flags().StringVar(&file, "file", "", "Worktree path for the content (default: entry point)")
	return cmd
}
