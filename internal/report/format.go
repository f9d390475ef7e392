// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats returns the supported output formats
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// Text renders the result for a terminal, one issue per line after the summary
func (r *Result) Text() string {
	var sb strings.Builder
	sb.WriteString(r.Summary())
	sb.WriteString("\n")
	for _, issue := range r.All() {
		sb.WriteString("  ")
		sb.WriteString(issue.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Encode renders the result in the named format
func (r *Result) Encode(format string) (string, error) {
	switch format {
	case "", FormatText:
		return r.Text(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode report: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("failed to encode report: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats(), ", "))
}
