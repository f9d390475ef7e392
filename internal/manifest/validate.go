// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// SemverRegex matches MAJOR.MINOR.PATCH with optional pre-release and build metadata
var SemverRegex = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)

var validTimestamp = validation.By(func(value interface{}) error {
	ts, _ := value.(Timestamp)
	if ts == "" {
		return nil
	}
	if !ts.IsValid() {
		return errors.New("must be an ISO-8601 timestamp")
	}
	return nil
})

// Validate checks the manifest and returns one issue per missing or invalid field.
// Missing required fields are errors; malformed values are warnings.
func (m *Manifest) Validate() []report.Issue {
	var issues []report.Issue

	required := validation.Errors{
		"mdx_version": validation.Validate(m.MdxVersion, validation.Required),
		"document.id": validation.Validate(m.Document.ID, validation.Required),
		"document.title": validation.Validate(m.Document.Title,
			validation.Required),
		"document.created":    validation.Validate(m.Document.Created, validation.Required),
		"document.modified":   validation.Validate(m.Document.Modified, validation.Required),
		"content.entry_point": validation.Validate(m.Content.EntryPoint, validation.Required),
	}
	issues = append(issues, toIssues(required, report.SeverityError, report.CodeRequiredField)...)

	format := validation.Errors{
		"mdx_version":        validation.Validate(m.MdxVersion, validation.Match(SemverRegex).Error("must be a semantic version")),
		"document.id":        validation.Validate(m.Document.ID, is.UUIDv4.Error("must be a UUID v4")),
		"document.created":   validation.Validate(m.Document.Created, validTimestamp),
		"document.modified":  validation.Validate(m.Document.Modified, validTimestamp),
		"document.published": validation.Validate(m.Document.Published, validTimestamp),
	}
	issues = append(issues, toIssues(format, report.SeverityWarning, report.CodeOptionalField)...)

	if m.Document.Created.IsValid() && m.Document.Modified.IsValid() && m.Document.Modified.Before(m.Document.Created) {
		issues = append(issues, report.Warningf(report.CodeTimestampOrder, "document.modified", "modified is earlier than created"))
	}

	for _, a := range m.Assets.All() {
		issues = append(issues, validateAsset(a)...)
	}

	seen := make(map[string]bool)
	for _, p := range m.AssetPaths() {
		if p == "" {
			continue
		}
		if seen[p] {
			issues = append(issues, report.Errorf(report.CodeAssetDuplicate, p, "asset path declared more than once"))
		}
		seen[p] = true
	}

	report.Sort(issues)
	return issues
}

// HasErrors reports whether any issue is an error
func HasErrors(issues []report.Issue) bool {
	for _, issue := range issues {
		if issue.Severity == report.SeverityError {
			return true
		}
	}
	return false
}

func validateAsset(a Asset) []report.Issue {
	base := a.Base()
	label := fmt.Sprintf("assets.%s", a.Category())

	err := validation.ValidateStruct(base,
		validation.Field(&base.Path, validation.Required),
	)
	if err != nil {
		return []report.Issue{report.Errorf(report.CodeAssetPathMissing, label, "asset record has no path")}
	}

	var issues []report.Issue
	if !assetpath.HasCategoryPrefix(base.Path, a.Category()) {
		issues = append(issues, report.Warningf(report.CodeAssetCategory, base.Path,
			"path does not start with %s", a.Category().Dir()))
	}
	return issues
}

// toIssues converts ozzo errors into issues keyed by field, in field order
func toIssues(errs validation.Errors, severity report.Severity, code report.Code) []report.Issue {
	keys := make([]string, 0, len(errs))
	for k, err := range errs {
		if err != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	issues := make([]report.Issue, 0, len(keys))
	for _, k := range keys {
		issues = append(issues, report.Issue{
			Severity: severity,
			Code:     code,
			Path:     k,
			Message:  fmt.Sprintf("%s %s", k, errs[k].Error()),
		})
	}
	return issues
}
