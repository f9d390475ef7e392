// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package validator certifies container archives without decoding them into a Document.
// It reads the raw zip and a generic view of manifest.json so that archives too broken
// to open still get a complete report.
package validator

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

const (
	// DefaultMaxAssetBytes is the size above which an asset is reported as large
	DefaultMaxAssetBytes int64 = 10 * 1024 * 1024
	// DefaultMaxPathLength is the longest archive path that is not reported
	DefaultMaxPathLength = 255
)

// Options tunes the hygiene thresholds
type Options struct {
	MaxAssetBytes int64
	MaxPathLength int
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{
		MaxAssetBytes: DefaultMaxAssetBytes,
		MaxPathLength: DefaultMaxPathLength,
	}
}

// Validator runs the validation pipeline. It holds no per-run state and is safe for concurrent use.
type Validator struct {
	opts Options
}

// New creates a validator; zero thresholds fall back to the defaults
func New(opts Options) *Validator {
	if opts.MaxAssetBytes <= 0 {
		opts.MaxAssetBytes = DefaultMaxAssetBytes
	}
	if opts.MaxPathLength <= 0 {
		opts.MaxPathLength = DefaultMaxPathLength
	}
	return &Validator{opts: opts}
}

// Validate checks data with the default thresholds
func Validate(data []byte) *report.Result {
	return New(DefaultOptions()).Validate(data)
}

// ValidateFile reads path and validates it. Only read failures are returned as errors.
func (v *Validator) ValidateFile(path string) (*report.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return v.Validate(data), nil
}

// run carries the state of one validation pass
type run struct {
	opts    Options
	entries map[string]*zip.File
	order   []*zip.File
	raw     map[string]interface{}
	issues  []report.Issue
}

func (r *run) add(issue report.Issue) {
	r.issues = append(r.issues, issue)
}

func (r *run) addAll(issues []report.Issue) {
	r.issues = append(r.issues, issues...)
}

func (r *run) has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *run) read(name string) ([]byte, bool) {
	f, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	data, err := container.ReadZipFile(f)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Validate runs every stage against the archive bytes. Structural failures stop the
// pipeline early; everything else is collected so one run reports the whole problem set.
func (v *Validator) Validate(data []byte) *report.Result {
	r := &run{opts: v.opts, entries: make(map[string]*zip.File)}

	zr, err := container.NewZipReader(data)
	if err != nil {
		r.add(report.Errorf(report.CodeNotArchive, "", "not a valid zip archive: %v", err))
		return report.NewResult(r.issues)
	}
	for _, f := range zr.File {
		if _, dup := r.entries[f.Name]; dup {
			r.add(report.Errorf(report.CodeDuplicateEntry, f.Name, "archive holds more than one entry with this name"))
			continue
		}
		r.entries[f.Name] = f
		r.order = append(r.order, f)
	}

	r.checkPaths()

	if !r.has(manifest.FileName) {
		r.add(report.Errorf(report.CodeManifestMissing, manifest.FileName, "required file manifest.json is missing"))
		return report.NewResult(r.issues)
	}
	manifestData, err := container.ReadZipFile(r.entries[manifest.FileName])
	if err != nil {
		r.add(report.Errorf(report.CodeManifestMalformed, manifest.FileName, "manifest.json cannot be read: %v", err))
		return report.NewResult(r.issues)
	}

	var raw interface{}
	if err := json.Unmarshal(manifestData, &raw); err != nil {
		r.add(report.Errorf(report.CodeManifestMalformed, manifest.FileName, "manifest.json is not valid JSON: %v", err))
		return report.NewResult(r.issues)
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		r.add(report.Errorf(report.CodeManifestMalformed, manifest.FileName, "manifest.json must hold a JSON object"))
		return report.NewResult(r.issues)
	}
	r.raw = obj

	r.checkFields()
	r.checkEntryPoint()
	referenced := r.checkAssets()
	r.checkOrphans(referenced)
	r.checkHistory()
	r.checkAnnotations()

	return report.NewResult(r.issues)
}
