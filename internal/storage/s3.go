// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveContentType is the content type stored with uploaded archives
const ArchiveContentType = "application/zip"

// S3Config holds object storage connection settings
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// S3Store stores archives in an S3-compatible object store
type S3Store struct {
	client *minio.Client
	region string
}

// NewS3Store creates a MinIO client. No request is made until first use.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: s3 endpoint is empty", ErrNotConfigured)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init minio client: %w", err)
	}
	return &S3Store{client: client, region: cfg.Region}, nil
}

// ParseLocation splits s3://bucket/key
func ParseLocation(location string) (bucket, key string, err error) {
	if !IsS3(location) {
		return "", "", fmt.Errorf("not an s3 location: %s", location)
	}
	rest := strings.TrimPrefix(location, S3Scheme)
	bucket, key, _ = strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location must be s3://bucket/key: %s", location)
	}
	return bucket, key, nil
}

// Read implements Store
func (s *S3Store) Read(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

// Write implements Store. The bucket is created if missing.
func (s *S3Store) Write(ctx context.Context, location string, data []byte) error {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return err
	}
	if err := s.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ArchiveContentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", location, err)
	}
	return nil
}

// Exists implements Store
func (s *S3Store) Exists(ctx context.Context, location string) (bool, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return false, err
	}
	_, err = s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", location, err)
}

// EnsureBucket creates bucket if it does not exist
func (s *S3Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to make bucket %s: %w", bucket, err)
	}
	return nil
}
