// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package report holds the issue types produced by manifest validation and the validator.
package report

import (
	"fmt"
	"sort"
)

// Severity classifies an issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Code is a stable identifier for an issue kind
type Code string

// Issue codes
const (
	CodeNotArchive           Code = "MDX001"
	CodeManifestMissing      Code = "MDX002"
	CodeManifestMalformed    Code = "MDX003"
	CodeVersionFormat        Code = "MDX010"
	CodeDocumentID           Code = "MDX011"
	CodeTitleMissing         Code = "MDX012"
	CodeTimestamp            Code = "MDX013"
	CodeOptionalField        Code = "MDX014"
	CodeRequiredField        Code = "MDX015"
	CodeTimestampOrder       Code = "MDX016"
	CodeEntryPointMissing    Code = "MDX020"
	CodeBrokenReference      Code = "MDX021"
	CodeAssetPathMissing     Code = "MDX030"
	CodeAssetNotFound        Code = "MDX031"
	CodeAssetCategory        Code = "MDX032"
	CodeAssetMimeType        Code = "MDX033"
	CodeAssetSizeMissing     Code = "MDX034"
	CodeAssetSizeMismatch    Code = "MDX035"
	CodeAltTextMissing       Code = "MDX036"
	CodeAssetDuplicate       Code = "MDX037"
	CodeAssetSizeInvalid     Code = "MDX038"
	CodeOrphanedAsset        Code = "MDX040"
	CodeChecksumMalformed    Code = "MDX050"
	CodeChecksumMismatch     Code = "MDX051"
	CodeBackslashPath        Code = "MDX060"
	CodePathTooLong          Code = "MDX061"
	CodeDotfile              Code = "MDX062"
	CodeOSArtifact           Code = "MDX063"
	CodeLargeAsset           Code = "MDX064"
	CodeUnsafePath           Code = "MDX065"
	CodeDuplicateEntry       Code = "MDX066"
	CodeVersionsMalformed    Code = "MDX070"
	CodeVersionChain         Code = "MDX071"
	CodeVersionDuplicate     Code = "MDX072"
	CodeSnapshotMissing      Code = "MDX073"
	CodeHistoryFileMissing   Code = "MDX074"
	CodeAnnotationsMalformed Code = "MDX080"
	CodeAnnotationStatus     Code = "MDX081"
)

// Issue is a single finding
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     Code     `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
}

// String formats an issue for terminal output
func (i Issue) String() string {
	if i.Path != "" {
		return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Code, i.Path, i.Message)
	}
	return fmt.Sprintf("[%s] %s %s", i.Severity, i.Code, i.Message)
}

// Errorf builds an error issue
func Errorf(code Code, path, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityError, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a warning issue
func Warningf(code Code, path, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityWarning, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Infof builds an info issue
func Infof(code Code, path, format string, args ...interface{}) Issue {
	return Issue{Severity: SeverityInfo, Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Result is the outcome of a validation run.
// Valid depends only on the number of errors.
type Result struct {
	Valid    bool    `json:"valid" yaml:"valid"`
	Errors   []Issue `json:"errors" yaml:"errors"`
	Warnings []Issue `json:"warnings" yaml:"warnings"`
	Info     []Issue `json:"info" yaml:"info"`
}

// Sort orders issues by severity, then path, then code, then message
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() < b.Severity.rank()
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
}

// NewResult buckets issues by severity
func NewResult(issues []Issue) *Result {
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	Sort(sorted)

	r := &Result{
		Errors:   []Issue{},
		Warnings: []Issue{},
		Info:     []Issue{},
	}
	for _, issue := range sorted {
		switch issue.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, issue)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, issue)
		default:
			r.Info = append(r.Info, issue)
		}
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// All returns every issue, errors first
func (r *Result) All() []Issue {
	all := make([]Issue, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	all = append(all, r.Info...)
	return all
}

// HasCode reports whether any issue carries the code
func (r *Result) HasCode(code Code) bool {
	for _, issue := range r.All() {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Summary returns a one-line count summary
func (r *Result) Summary() string {
	status := "PASS"
	if !r.Valid {
		status = "FAIL"
	}
	return fmt.Sprintf("%s: %d error(s), %d warning(s), %d info", status, len(r.Errors), len(r.Warnings), len(r.Info))
}
