// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/catalog"
	"github.com/tejzpr/mdx-mcp/internal/tools"
)

func newIndexCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Index a directory of containers into the catalog",
		Long: `Scan [dir] (default: catalog.directory from config) for .mdx files, validate
each one and record its metadata and issues in the catalog database. Unchanged
files are skipped unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Catalog.Directory
			if len(args) == 1 {
				dir = args[0]
			}
			db, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close(db)

			res, err := catalog.Index(cmd.Context(), db, dir, catalog.Options{
				Force:     force,
				Validator: a.validator(),
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d, created %d, updated %d, skipped %d, removed %d\n",
				res.Processed, res.Created, res.Updated, res.Skipped, res.Removed)
			for _, e := range res.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Clear the catalog and re-index every file")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		invalid bool
		issues  string
	)
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search indexed containers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}
			db, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close(db)

			out := cmd.OutOrStdout()
			if issues != "" {
				list, err := catalog.IssuesFor(db, issues)
				if err != nil {
					return err
				}
				fmt.Fprint(out, tools.FormatIssues(issues, list))
				return nil
			}

			var docs []catalog.Document
			switch {
			case invalid:
				docs, err = catalog.Invalid(db)
				if err == nil && keyword != "" {
					docs = tools.FilterByKeyword(docs, keyword)
				}
			case keyword != "":
				docs, err = catalog.Search(db, keyword)
			default:
				docs, err = catalog.List(db)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(out, tools.FormatDocuments(docs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&invalid, "invalid", false, "Only containers that failed validation")
	cmd.Flags().StringVar(&issues, "issues", "", "Show recorded issues for this indexed path")
	return cmd
}
