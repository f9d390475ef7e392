// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package storage reads and writes container archives at local paths or s3:// locations
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// S3Scheme prefixes object storage locations: s3://bucket/key
const S3Scheme = "s3://"

// ErrNotConfigured is returned when a location needs a backend that was not set up
var ErrNotConfigured = errors.New("storage backend is not configured")

// Store is a place archives can be read from and written to
type Store interface {
	Read(ctx context.Context, location string) ([]byte, error)
	Write(ctx context.Context, location string, data []byte) error
	Exists(ctx context.Context, location string) (bool, error)
}

// IsS3 reports whether location uses the s3:// scheme
func IsS3(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// FileStore stores archives on the local filesystem
type FileStore struct{}

// Read implements Store
func (FileStore) Read(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// Write implements Store. The file is replaced atomically.
func (FileStore) Write(ctx context.Context, location string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(location), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp := location + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, location); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", location, err)
	}
	return nil
}

// Exists implements Store
func (FileStore) Exists(ctx context.Context, location string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(location)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", location, err)
}

// Router dispatches to the S3 store for s3:// locations and to the file store otherwise
type Router struct {
	File Store
	S3   Store
}

// NewRouter creates a router; s3 may be nil when object storage is not configured
func NewRouter(s3 Store) *Router {
	return &Router{File: FileStore{}, S3: s3}
}

func (r *Router) storeFor(location string) (Store, error) {
	if IsS3(location) {
		if r.S3 == nil {
			return nil, fmt.Errorf("%w: %s needs s3 settings", ErrNotConfigured, location)
		}
		return r.S3, nil
	}
	if r.File == nil {
		return FileStore{}, nil
	}
	return r.File, nil
}

// Read implements Store
func (r *Router) Read(ctx context.Context, location string) ([]byte, error) {
	s, err := r.storeFor(location)
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, location)
}

// Write implements Store
func (r *Router) Write(ctx context.Context, location string, data []byte) error {
	s, err := r.storeFor(location)
	if err != nil {
		return err
	}
	return s.Write(ctx, location, data)
}

// Exists implements Store
func (r *Router) Exists(ctx context.Context, location string) (bool, error) {
	s, err := r.storeFor(location)
	if err != nil {
		return false, err
	}
	return s.Exists(ctx, location)
}

// NewConfiguredRouter creates a router with an S3 store when cfg names an endpoint
func NewConfiguredRouter(cfg S3Config) (*Router, error) {
	if cfg.Endpoint == "" {
		return NewRouter(nil), nil
	}
	s3, err := NewS3Store(cfg)
	if err != nil {
		return nil, err
	}
	return NewRouter(s3), nil
}
