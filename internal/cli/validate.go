// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tejzpr/mdx-mcp/internal/report"
	"github.com/tejzpr/mdx-mcp/internal/storage"
	"github.com/tejzpr/mdx-mcp/internal/validator"
	"gopkg.in/yaml.v3"
)

// fileReport is one entry of a multi-file json or yaml report
type fileReport struct {
	Path     string         `json:"path" yaml:"path"`
	Valid    bool           `json:"valid" yaml:"valid"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Errors   []report.Issue `json:"errors" yaml:"errors"`
	Warnings []report.Issue `json:"warnings" yaml:"warnings"`
	Info     []report.Issue `json:"info" yaml:"info"`
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		format  string
		noExit  bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate containers and report errors, warnings and info",
		Long: `Validate one or more containers. The exit code is 0 only when every container
is valid (no errors); warnings and info never fail validation. Use --no-exit to always exit 0.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case report.FormatText, report.FormatJSON, report.FormatYAML:
			default:
				return fmt.Errorf("unsupported format %q", format)
			}

			results := a.validateAll(cmd, args, workers)

			allValid := true
			for _, r := range results {
				if r.Err != nil || !r.Result.Valid {
					allValid = false
				}
				if r.Result != nil {
					a.logger.Debug("container validated", "path", r.Path, "valid", r.Result.Valid)
				}
			}

			if err := writeReports(cmd.OutOrStdout(), results, format); err != nil {
				return err
			}
			if !allValid && !noExit {
				return ErrInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Report format: text, json or yaml")
	cmd.Flags().BoolVar(&noExit, "no-exit", false, "Exit 0 even when validation fails")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of files validated in parallel")
	return cmd
}

// validateAll validates local files in parallel, or every location through storage when any is remote
func (a *app) validateAll(cmd *cobra.Command, paths []string, workers int) []validator.FileResult {
	v := a.validator()
	remote := false
	for _, p := range paths {
		if storage.IsS3(p) {
			remote = true
			break
		}
	}
	if !remote {
		return v.ValidateFiles(cmd.Context(), paths, workers)
	}

	results := make([]validator.FileResult, len(paths))
	for i, p := range paths {
		data, err := a.storage.Read(cmd.Context(), p)
		if err != nil {
			results[i] = validator.FileResult{Path: p, Err: err}
			continue
		}
		results[i] = validator.FileResult{Path: p, Result: v.Validate(data)}
	}
	return results
}

func writeReports(w io.Writer, results []validator.FileResult, format string) error {
	if len(results) == 1 && results[0].Err == nil {
		out, err := results[0].Result.Encode(format)
		if err != nil {
			return err
		}
		if format == report.FormatText {
			out = fmt.Sprintf("%s: %s", results[0].Path, out)
		}
		_, err = io.WriteString(w, out)
		return err
	}

	if format == report.FormatText {
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(w, "%s: ERROR: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Fprintf(w, "%s: %s", r.Path, r.Result.Text())
		}
		return nil
	}

	reports := make([]fileReport, 0, len(results))
	for _, r := range results {
		fr := fileReport{Path: r.Path}
		if r.Err != nil {
			fr.Error = r.Err.Error()
		} else {
			fr.Valid = r.Result.Valid
			fr.Errors = r.Result.Errors
			fr.Warnings = r.Result.Warnings
			fr.Info = r.Result.Info
		}
		reports = append(reports, fr)
	}

	if format == report.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(reports)
}
