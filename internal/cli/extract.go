// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/container"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <path> <dir>",
		Short: "Unpack every archive entry into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.storage.Read(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			n, err := extractArchive(data, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d file(s) to %s\n", n, args[1])
			return nil
		},
	}
}

// extractArchive writes the entries of a zip archive under dir and returns the file count.
// Entries that would land outside dir are rejected.
func extractArchive(data []byte, dir string) (int, error) {
	zr, err := container.NewZipReader(data)
	if err != nil {
		return 0, err
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, f := range zr.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return count, fmt.Errorf("refusing to extract %q outside %s", f.Name, dir)
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, err
			}
			continue
		}
		content, err := container.ReadZipFile(f)
		if err != nil {
			return count, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return count, fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return count, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		count++
	}
	return count, nil
}
