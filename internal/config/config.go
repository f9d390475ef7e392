// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".mdx/configs"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.json"
	// EnvPrefix prefixes environment overrides, e.g. MDX_CODEC_COMPRESSION_LEVEL
	EnvPrefix = "MDX"

	defaultMaxAssetBytes = 10 * 1024 * 1024
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configuration from ~/.mdx/configs/config.json.
// A missing file yields the defaults; environment overrides apply either way.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDir))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// environment overrides are seen by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("codec.compression_level", d.Codec.CompressionLevel)
	v.SetDefault("codec.checksum_algorithm", d.Codec.ChecksumAlgorithm)

	v.SetDefault("validator.max_asset_bytes", d.Validator.MaxAssetBytes)
	v.SetDefault("validator.max_path_length", d.Validator.MaxPathLength)

	v.SetDefault("catalog.enabled", d.Catalog.Enabled)
	v.SetDefault("catalog.type", d.Catalog.Type)
	v.SetDefault("catalog.sqlite_path", d.Catalog.SQLitePath)
	v.SetDefault("catalog.postgres_dsn", d.Catalog.PostgresDSN)
	v.SetDefault("catalog.directory", d.Catalog.Directory)
	v.SetDefault("catalog.reindex_interval_minutes", d.Catalog.ReindexInterval)

	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.use_ssl", true)
	v.SetDefault("storage.s3.region", "")

	v.SetDefault("history.git_author", d.History.GitAuthor)
	v.SetDefault("history.git_email", d.History.GitEmail)
	v.SetDefault("history.default_branch", d.History.DefaultBranch)

	v.SetDefault("render.sanitize", d.Render.Sanitize)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Codec.CompressionLevel < 0 || cfg.Codec.CompressionLevel > 9 {
		return fmt.Errorf("codec.compression_level must be between 0 and 9, got %d", cfg.Codec.CompressionLevel)
	}
	if !integrity.Supported(cfg.Codec.ChecksumAlgorithm) {
		return fmt.Errorf("codec.checksum_algorithm must be one of %v, got '%s'", integrity.Algorithms(), cfg.Codec.ChecksumAlgorithm)
	}

	if cfg.Validator.MaxAssetBytes < 1 {
		return fmt.Errorf("validator.max_asset_bytes must be at least 1, got %d", cfg.Validator.MaxAssetBytes)
	}
	if cfg.Validator.MaxPathLength < 1 {
		return fmt.Errorf("validator.max_path_length must be at least 1, got %d", cfg.Validator.MaxPathLength)
	}

	if cfg.Catalog.Type != CatalogSQLite && cfg.Catalog.Type != CatalogPostgres {
		return fmt.Errorf("catalog.type must be 'sqlite' or 'postgres', got '%s'", cfg.Catalog.Type)
	}
	if cfg.Catalog.Type == CatalogSQLite && cfg.Catalog.SQLitePath == "" {
		return fmt.Errorf("catalog.sqlite_path is required when type is 'sqlite'")
	}
	if cfg.Catalog.Type == CatalogPostgres && cfg.Catalog.PostgresDSN == "" {
		return fmt.Errorf("catalog.postgres_dsn is required when type is 'postgres'")
	}
	if cfg.Catalog.ReindexInterval < 1 {
		return fmt.Errorf("catalog.reindex_interval_minutes must be at least 1, got %d", cfg.Catalog.ReindexInterval)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if !isValidType(cfg.Log.Level, ValidLogLevels()) {
		return fmt.Errorf("log.level must be one of %v, got '%s'", ValidLogLevels(), cfg.Log.Level)
	}
	if cfg.Log.Format != LogFormatText && cfg.Log.Format != LogFormatJSON {
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", cfg.Log.Format)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(homeDir, DefaultConfigDir), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Codec: CodecConfig{
			CompressionLevel:  6,
			ChecksumAlgorithm: integrity.DefaultAlgorithm,
		},
		Validator: ValidatorConfig{
			MaxAssetBytes: defaultMaxAssetBytes,
			MaxPathLength: 255,
		},
		Catalog: CatalogConfig{
			Type:            CatalogSQLite,
			SQLitePath:      filepath.Join(homeDir, ".mdx/db/catalog.db"),
			Directory:       filepath.Join(homeDir, ".mdx/documents"),
			ReindexInterval: 60,
		},
		Storage: StorageConfig{
			S3: S3Config{UseSSL: true},
		},
		History: HistoryConfig{
			GitAuthor:     "MDX",
			GitEmail:      "mdx@localhost",
			DefaultBranch: "main",
		},
		Render: RenderConfig{
			Sanitize: true,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}
