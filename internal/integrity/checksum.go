// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package integrity computes and verifies "<algorithm>:<hexdigest>" checksums.
package integrity

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"regexp"
	"strings"
)

// DefaultAlgorithm is used when no algorithm is configured
const DefaultAlgorithm = "sha256"

// chunkSize is the read size between context checks
const chunkSize = 64 * 1024

var (
	// ErrUnsupportedAlgorithm is returned for an algorithm with no hashing primitive
	ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")
	// ErrMalformedChecksum is returned when a checksum is not "<algorithm>:<hexdigest>"
	ErrMalformedChecksum = errors.New("malformed checksum")
)

var hexRegex = regexp.MustCompile(`^[0-9a-f]+$`)

var algorithms = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
	"sha1":   sha1.New,
	"md5":    md5.New,
}

// Supported reports whether the algorithm has a hashing primitive
func Supported(algorithm string) bool {
	_, ok := algorithms[strings.ToLower(algorithm)]
	return ok
}

// Algorithms returns the supported algorithm names
func Algorithms() []string {
	return []string{"sha256", "sha384", "sha512", "sha1", "md5"}
}

func newHash(algorithm string) (hash.Hash, error) {
	ctor, ok := algorithms[strings.ToLower(algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
	return ctor(), nil
}

// Compute returns the checksum of data in "<algorithm>:<lowercase-hex>" form
func Compute(algorithm string, data []byte) (string, error) {
	return ComputeContext(context.Background(), algorithm, bytes.NewReader(data))
}

// ComputeContext hashes r in chunks, aborting if ctx is cancelled
func ComputeContext(ctx context.Context, algorithm string, r io.Reader) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, readErr := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("failed to read data for checksum: %w", readErr)
		}
	}

	return strings.ToLower(algorithm) + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// Parse splits a checksum into algorithm and digest.
// The digest must be lowercase hex of the length the algorithm produces.
func Parse(checksum string) (algorithm, digest string, err error) {
	idx := strings.Index(checksum, ":")
	if idx <= 0 || idx == len(checksum)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedChecksum, checksum)
	}

	algorithm = strings.ToLower(checksum[:idx])
	digest = checksum[idx+1:]

	h, err := newHash(algorithm)
	if err != nil {
		return "", "", err
	}
	if !hexRegex.MatchString(digest) || len(digest) != h.Size()*2 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedChecksum, checksum)
	}

	return algorithm, digest, nil
}

// Verify recomputes the checksum of data and compares it with expected.
// A false result with nil error is a mismatch.
func Verify(expected string, data []byte) (bool, error) {
	algorithm, digest, err := Parse(expected)
	if err != nil {
		return false, err
	}

	actual, err := Compute(algorithm, data)
	if err != nil {
		return false, err
	}

	return actual == algorithm+":"+digest, nil
}
