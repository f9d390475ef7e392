// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package history models history/versions.json and resolves version snapshots.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// SchemaVersion is written to versions.json
const SchemaVersion = "1.0.0"

var (
	// ErrVersionExists is returned when a version string is already in the log
	ErrVersionExists = errors.New("version already exists")
	// ErrVersionNotFound is returned for an unknown version string
	ErrVersionNotFound = errors.New("version not found")
	// ErrInvalidVersion is returned for version strings that cannot name a snapshot file
	ErrInvalidVersion = errors.New("invalid version string")
	// ErrUnresolvableSnapshot is returned when a snapshot's content cannot be produced
	ErrUnresolvableSnapshot = errors.New("snapshot cannot be resolved")
)

// SnapshotType is how a version's content is stored
type SnapshotType string

const (
	// SnapshotFull stores the complete content
	SnapshotFull SnapshotType = "full"
	// SnapshotDiff stores a patch against BaseVersion
	SnapshotDiff SnapshotType = "diff"
	// SnapshotReference points into external version control
	SnapshotReference SnapshotType = "reference"
)

// IsValid reports whether the snapshot type is known
func (t SnapshotType) IsValid() bool {
	return t == SnapshotFull || t == SnapshotDiff || t == SnapshotReference
}

// Author identifies who created a version
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Snapshot locates the content of a version
type Snapshot struct {
	Type        SnapshotType `json:"type"`
	Path        string       `json:"path,omitempty"`
	BaseVersion string       `json:"base_version,omitempty"`
	Ref         string       `json:"ref,omitempty"`
}

// Changes summarizes what a version touched
type Changes struct {
	Summary  string   `json:"summary,omitempty"`
	Added    []string `json:"added,omitempty"`
	Modified []string `json:"modified,omitempty"`
	Removed  []string `json:"removed,omitempty"`
}

// Entry is one version
type Entry struct {
	Version       string             `json:"version"`
	Timestamp     manifest.Timestamp `json:"timestamp"`
	Author        Author             `json:"author"`
	Message       string             `json:"message"`
	Snapshot      Snapshot           `json:"snapshot"`
	ParentVersion *string            `json:"parent_version"`
	Changes       *Changes           `json:"changes,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
}

// Parent returns the parent version or "" for the first entry
func (e *Entry) Parent() string {
	if e.ParentVersion == nil {
		return ""
	}
	return *e.ParentVersion
}

// Log is the ordered version list stored in versions.json
type Log struct {
	SchemaVersion  string   `json:"schema_version"`
	CurrentVersion string   `json:"current_version"`
	Versions       []*Entry `json:"versions"`
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{SchemaVersion: SchemaVersion, Versions: []*Entry{}}
}

// Parse decodes versions.json
func Parse(data []byte) (*Log, error) {
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse versions file: %w", err)
	}
	if l.Versions == nil {
		l.Versions = []*Entry{}
	}
	return &l, nil
}

// JSON encodes the log pretty-printed
func (l *Log) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal versions file: %w", err)
	}
	return data, nil
}

// Len returns the number of versions
func (l *Log) Len() int {
	return len(l.Versions)
}

// Head returns the latest entry, or nil when empty
func (l *Log) Head() *Entry {
	if len(l.Versions) == 0 {
		return nil
	}
	return l.Versions[len(l.Versions)-1]
}

// Find returns the entry with the version string
func (l *Log) Find(version string) (*Entry, bool) {
	for _, e := range l.Versions {
		if e.Version == version {
			return e, true
		}
	}
	return nil, false
}

// Append links e to the current head and makes it the current version.
// The parent is always overwritten so the chain stays linear.
func (l *Log) Append(e *Entry) error {
	if e.Version == "" {
		return fmt.Errorf("version string is required")
	}
	if _, exists := l.Find(e.Version); exists {
		return fmt.Errorf("%w: %s", ErrVersionExists, e.Version)
	}

	if head := l.Head(); head != nil {
		parent := head.Version
		e.ParentVersion = &parent
	} else {
		e.ParentVersion = nil
	}

	l.Versions = append(l.Versions, e)
	l.CurrentVersion = e.Version
	return nil
}

// ValidateVersion rejects version strings that are empty or would not stay
// a single segment when used in a snapshot path
func ValidateVersion(version string) error {
	switch {
	case version == "":
		return fmt.Errorf("%w: version string is required", ErrInvalidVersion)
	case strings.ContainsAny(version, "/\\"), strings.Contains(version, ".."):
		return fmt.Errorf("%w: %q must not contain path separators or \"..\"", ErrInvalidVersion, version)
	case strings.IndexFunc(version, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidVersion, version)
	}
	return nil
}

// SnapshotPath builds <dir>/v<version><ext>
func SnapshotPath(dir, version, ext string) string {
	return fmt.Sprintf("%s/v%s%s", dir, version, ext)
}

// Check reports chain and uniqueness problems as warnings
func (l *Log) Check(file string) []report.Issue {
	var issues []report.Issue
	seen := make(map[string]bool)

	for i, e := range l.Versions {
		if seen[e.Version] {
			issues = append(issues, report.Warningf(report.CodeVersionDuplicate, file,
				"version %s appears more than once", e.Version))
		}
		seen[e.Version] = true

		if !e.Snapshot.Type.IsValid() {
			issues = append(issues, report.Warningf(report.CodeVersionChain, file,
				"version %s has unknown snapshot type %q", e.Version, e.Snapshot.Type))
		}

		if i == 0 {
			if e.ParentVersion != nil {
				issues = append(issues, report.Warningf(report.CodeVersionChain, file,
					"first version %s has parent %s", e.Version, *e.ParentVersion))
			}
			continue
		}

		expected := l.Versions[i-1].Version
		if e.Parent() != expected {
			issues = append(issues, report.Warningf(report.CodeVersionChain, file,
				"version %s has parent %q, expected %q", e.Version, e.Parent(), expected))
		}
	}

	if l.CurrentVersion != "" {
		if _, ok := l.Find(l.CurrentVersion); !ok {
			issues = append(issues, report.Warningf(report.CodeVersionChain, file,
				"current_version %s is not in the version list", l.CurrentVersion))
		}
	}

	return issues
}
