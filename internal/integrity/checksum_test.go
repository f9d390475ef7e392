// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package integrity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	sum, err := Compute("sha256", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)

	sum, err = Compute("md5", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "md5:5d41402abc4b2a76b9719d911017c592", sum)

	sum, err = Compute("SHA1", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "sha1:aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", sum)
}

func TestCompute_AllAlgorithms(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(alg, func(t *testing.T) {
			assert.True(t, Supported(alg))
			sum, err := Compute(alg, []byte("data"))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(sum, alg+":"))

			ok, err := Verify(sum, []byte("data"))
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestCompute_UnsupportedAlgorithm(t *testing.T) {
	_, err := Compute("crc32", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm))
	assert.False(t, Supported("crc32"))
}

func TestComputeContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ComputeContext(ctx, "sha256", strings.NewReader("payload"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeContext_LargeInput(t *testing.T) {
	data := strings.Repeat("a", chunkSize*3+17)

	streamed, err := ComputeContext(context.Background(), "sha256", strings.NewReader(data))
	require.NoError(t, err)

	direct, err := Compute("sha256", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, direct, streamed)
}

func TestParse(t *testing.T) {
	valid := "sha256:" + strings.Repeat("ab", 32)

	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantAlg  string
		wantHash string
	}{
		{"valid", valid, nil, "sha256", strings.Repeat("ab", 32)},
		{"no separator", "sha256", ErrMalformedChecksum, "", ""},
		{"empty digest", "sha256:", ErrMalformedChecksum, "", ""},
		{"empty algorithm", ":abcd", ErrMalformedChecksum, "", ""},
		{"uppercase hex", "sha256:" + strings.Repeat("AB", 32), ErrMalformedChecksum, "", ""},
		{"wrong length", "sha256:abcd", ErrMalformedChecksum, "", ""},
		{"unknown algorithm", "whirlpool:abcd", ErrUnsupportedAlgorithm, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alg, digest, err := Parse(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlg, alg)
			assert.Equal(t, tt.wantHash, digest)
		})
	}
}

func TestVerify_Mismatch(t *testing.T) {
	sum, err := Compute("sha256", []byte("original"))
	require.NoError(t, err)

	ok, err := Verify(sum, []byte("tampered"))
	require.NoError(t, err)
	assert.False(t, ok)
}
