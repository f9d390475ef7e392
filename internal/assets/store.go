// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package assets holds the raw payloads of a container keyed by archive path.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
)

// Entry is a stored payload
type Entry struct {
	Path     string
	Data     []byte
	Category assetpath.Category
	MimeType string
	Checksum string
}

// Size returns the payload length
func (e *Entry) Size() int64 {
	return int64(len(e.Data))
}

// AddOptions controls AddFromBytes
type AddOptions struct {
	// Category overrides the category derived from the extension
	Category assetpath.Category
	// Algorithm selects the checksum algorithm, default sha256
	Algorithm string
}

// Store maps archive paths to payloads, preserving insertion order.
// It does not know about manifest records.
type Store struct {
	order   []string
	entries map[string]*Entry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Put stores data at path, replacing any existing payload
func (s *Store) Put(path string, data []byte) *Entry {
	entry, exists := s.entries[path]
	if !exists {
		entry = &Entry{Path: path}
		s.entries[path] = entry
		s.order = append(s.order, path)
	}
	entry.Data = data
	entry.Checksum = ""
	if c, ok := assetpath.CategoryFromPath(path); ok {
		entry.Category = c
	}
	entry.MimeType = assetpath.MimeTypeForFilename(path)
	return entry
}

// AddFromBytes stores data under assets/<category>/<sanitized filename>
// and computes its checksum. The returned entry's Path is the reference to
// embed in markdown.
func (s *Store) AddFromBytes(ctx context.Context, data []byte, filename string, opts AddOptions) (*Entry, error) {
	category := opts.Category
	if category == "" {
		category = assetpath.CategoryForFilename(filename)
	}

	path, err := assetpath.Build(category, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset path: %w", err)
	}

	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = integrity.DefaultAlgorithm
	}

	checksum, err := integrity.ComputeContext(ctx, algorithm, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compute checksum for %s: %w", path, err)
	}

	entry := s.Put(path, data)
	entry.Category = category
	entry.Checksum = checksum
	return entry, nil
}

// Get returns the entry at path
func (s *Store) Get(path string) (*Entry, bool) {
	entry, ok := s.entries[path]
	return entry, ok
}

// Bytes returns the payload at path
func (s *Store) Bytes(path string) ([]byte, bool) {
	entry, ok := s.entries[path]
	if !ok {
		return nil, false
	}
	return entry.Data, true
}

// GetString returns the payload at path decoded as text
func (s *Store) GetString(path string) (string, bool) {
	data, ok := s.Bytes(path)
	if !ok {
		return "", false
	}
	return string(data), true
}

// Blob returns a reader over the payload and its MIME type
func (s *Store) Blob(path string) (io.ReadSeeker, string, bool) {
	entry, ok := s.entries[path]
	if !ok {
		return nil, "", false
	}
	return bytes.NewReader(entry.Data), entry.MimeType, true
}

// Has reports whether path is stored
func (s *Store) Has(path string) bool {
	_, ok := s.entries[path]
	return ok
}

// Remove deletes the payload at path. Manifest records are left alone.
func (s *Store) Remove(path string) bool {
	if _, ok := s.entries[path]; !ok {
		return false
	}
	delete(s.entries, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored payloads
func (s *Store) Len() int {
	return len(s.order)
}

// Paths returns stored paths in insertion order
func (s *Store) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// SortedPaths returns stored paths in lexical order
func (s *Store) SortedPaths() []string {
	out := s.Paths()
	sort.Strings(out)
	return out
}

// AssetPaths returns the sorted paths under assets/
func (s *Store) AssetPaths() []string {
	var out []string
	for _, p := range s.SortedPaths() {
		if assetpath.IsAssetPath(p) {
			out = append(out, p)
		}
	}
	return out
}

// PathsWithPrefix returns the sorted paths starting with prefix
func (s *Store) PathsWithPrefix(prefix string) []string {
	var out []string
	for _, p := range s.SortedPaths() {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// TotalSize returns the sum of payload sizes
func (s *Store) TotalSize() int64 {
	var total int64
	for _, entry := range s.entries {
		total += entry.Size()
	}
	return total
}
