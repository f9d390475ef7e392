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
	"github.com/tejzpr/mdx-mcp/internal/manifest"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		title        string
		description  string
		authors      []string
		keywords     []string
		language     string
		version      string
		contentFile  string
		fromMarkdown string
	)
	cmd := &cobra.Command{
		Use:   "create <output>",
		Short: "Create a new container",
		Long: `Create a new container at <output> (a local path or s3://bucket/key).
With --from-markdown the title, authors and other metadata are read from the file's YAML frontmatter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := args[0]

			var doc *container.Document
			var err error
			if fromMarkdown != "" {
				data, err := os.ReadFile(fromMarkdown)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", fromMarkdown, err)
				}
				fallback := title
				if fallback == "" {
					fallback = strings.TrimSuffix(filepath.Base(fromMarkdown), filepath.Ext(fromMarkdown))
				}
				doc, err = container.FromMarkdown(string(data), fallback, a.containerOptions()...)
				if err != nil {
					return err
				}
				if title != "" {
					if err := doc.SetTitle(title); err != nil {
						return err
					}
				}
				if description != "" {
					doc.SetDescription(description)
				}
				if len(keywords) > 0 {
					doc.SetKeywords(keywords)
				}
				for _, s := range authors {
					doc.AddAuthor(parsePerson(s))
				}
			} else {
				if title == "" {
					return fmt.Errorf("--title is required unless --from-markdown is given")
				}
				opts := container.CreateOptions{
					Description: description,
					Keywords:    keywords,
					Language:    language,
					Version:     version,
				}
				for _, s := range authors {
					opts.Authors = append(opts.Authors, parsePerson(s))
				}
				if contentFile != "" {
					data, err := os.ReadFile(contentFile)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", contentFile, err)
					}
					opts.Content = string(data)
				}
				doc, err = container.Create(title, opts, a.containerOptions()...)
				if err != nil {
					return err
				}
			}

			if err := a.save(cmd.Context(), output, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", output, doc.Manifest.Document.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Document title")
	cmd.Flags().StringVar(&description, "description", "", "Document description")
	cmd.Flags().StringArrayVarP(&authors, "author", "a", nil, `Author as "Name" or "Name <email>" (repeatable)`)
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Keyword (repeatable or comma separated)")
	cmd.Flags().StringVar(&language, "language", manifest.DefaultLanguage, "Content language (BCP 47)")
	cmd.Flags().StringVar(&version, "version", manifest.DefaultDocumentVersion, "Document version")
	cmd.Flags().StringVar(&contentFile, "content", "", "Markdown file used as the document body")
	cmd.Flags().StringVar(&fromMarkdown, "from-markdown", "", "Markdown file with YAML frontmatter to import")
	cmd.MarkFlagsMutuallyExclusive("content", "from-markdown")
	return cmd
}
