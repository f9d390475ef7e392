// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output     string
		fragment   bool
		noSanitize bool
		noInline   bool
	)
	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render the content to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			html, err := render.ToHTML(cmd.Context(), doc, nil, render.Options{
				Sanitize:     a.cfg.Render.Sanitize && !noSanitize,
				InlineAssets: !noInline,
				Standalone:   !fragment,
			})
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), html)
				return nil
			}
			if err := a.storage.Write(cmd.Context(), output, []byte(html)); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Emit only the body, without the page wrapper")
	cmd.Flags().BoolVar(&noSanitize, "no-sanitize", false, "Keep raw HTML as written")
	cmd.Flags().BoolVar(&noInline, "no-inline", false, "Leave asset links as archive paths instead of data URIs")
	return cmd
}
