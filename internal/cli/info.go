// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/tools"
)

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Show container metadata and asset inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			if asJSON {
				data, err := doc.Manifest.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), tools.Describe(doc))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the manifest as JSON")
	return cmd
}
