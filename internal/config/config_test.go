// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, EnsureConfigDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Codec.CompressionLevel)
	assert.Equal(t, "sha256", cfg.Codec.ChecksumAlgorithm)
	assert.Equal(t, int64(10*1024*1024), cfg.Validator.MaxAssetBytes)
	assert.Equal(t, 255, cfg.Validator.MaxPathLength)
	assert.Equal(t, CatalogSQLite, cfg.Catalog.Type)
	assert.Equal(t, 60, cfg.Catalog.ReindexInterval)
	assert.True(t, cfg.Render.Sanitize)
	assert.True(t, cfg.Storage.S3.UseSSL)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MDX_CODEC_COMPRESSION_LEVEL", "9")
	t.Setenv("MDX_STORAGE_S3_ENDPOINT", "minio.local:9000")
	t.Setenv("MDX_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Codec.CompressionLevel)
	assert.Equal(t, "minio.local:9000", cfg.Storage.S3.Endpoint)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
}

func TestLoadFromPath(t *testing.T) {
	tests := []struct {
		name        string
		configJSON  string
		expectError string
		validate    func(*testing.T, *Config)
	}{
		{
			name: "valid sqlite config",
			configJSON: `{
				"codec": {"compression_level": 1, "checksum_algorithm": "sha512"},
				"catalog": {"enabled": true, "type": "sqlite", "sqlite_path": "/tmp/catalog.db", "directory": "/srv/docs"},
				"server": {"host": "0.0.0.0", "port": 9000}
			}`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1, cfg.Codec.CompressionLevel)
				assert.Equal(t, "sha512", cfg.Codec.ChecksumAlgorithm)
				assert.True(t, cfg.Catalog.Enabled)
				assert.Equal(t, "/srv/docs", cfg.Catalog.Directory)
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 255, cfg.Validator.MaxPathLength)
			},
		},
		{
			name:       "valid postgres config",
			configJSON: `{"catalog": {"type": "postgres", "postgres_dsn": "host=localhost user=mdx"}}`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, CatalogPostgres, cfg.Catalog.Type)
			},
		},
		{
			name:        "compression level out of range",
			configJSON:  `{"codec": {"compression_level": 12}}`,
			expectError: "codec.compression_level",
		},
		{
			name:        "unknown checksum algorithm",
			configJSON:  `{"codec": {"checksum_algorithm": "crc32"}}`,
			expectError: "codec.checksum_algorithm",
		},
		{
			name:        "postgres without dsn",
			configJSON:  `{"catalog": {"type": "postgres"}}`,
			expectError: "catalog.postgres_dsn",
		},
		{
			name:        "invalid catalog type",
			configJSON:  `{"catalog": {"type": "mysql"}}`,
			expectError: "catalog.type",
		},
		{
			name:        "invalid port",
			configJSON:  `{"server": {"port": 70000}}`,
			expectError: "server.port",
		},
		{
			name:        "invalid log level",
			configJSON:  `{"log": {"level": "loud"}}`,
			expectError: "log.level",
		},
		{
			name:        "zero path length",
			configJSON:  `{"validator": {"max_path_length": 0}}`,
			expectError: "validator.max_path_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.configJSON), 0644))

			cfg, err := LoadFromPath(path)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, validate(DefaultConfig()))
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: LogFormatJSON}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "other"}.SlogLevel())
}
