// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/container"
)

func newAddAssetCmd(a *app) *cobra.Command {
	var (
		category    string
		name        string
		title       string
		description string
		altText     string
	)
	cmd := &cobra.Command{
		Use:   "add-asset <path> <file>",
		Short: "Add a file to the container's assets",
		Long: `Add <file> as an asset. The category is detected from the file extension
unless --category is given. Adding a file at an existing asset path replaces it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := assetpath.Category(category)
			if cat != "" && !cat.IsValid() {
				return fmt.Errorf("unknown category %q", category)
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			if name == "" {
				name = filepath.Base(args[1])
			}

			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			record, err := doc.AddAsset(cmd.Context(), data, name, container.AssetOptions{
				Category:    cat,
				Title:       title,
				Description: description,
				AltText:     altText,
			})
			if err != nil {
				return err
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			base := record.Base()
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s)\n", base.Path, base.MimeType, humanize.IBytes(uint64(len(data))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Asset category (images, video, audio, models, documents, data, fonts, other)")
	cmd.Flags().StringVar(&name, "name", "", "File name inside the archive (default: base name of <file>)")
	cmd.Flags().StringVar(&title, "title", "", "Asset title")
	cmd.Flags().StringVar(&description, "description", "", "Asset description")
	cmd.Flags().StringVar(&altText, "alt", "", "Alternative text for images")
	return cmd
}

func newRemoveAssetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-asset <path> <asset-path>",
		Short: "Remove an asset's bytes and its manifest record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			if !doc.RemoveAsset(args[1]) {
				return fmt.Errorf("asset not found: %s", args[1])
			}
			if err := a.save(cmd.Context(), args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
			return nil
		},
	}
}
