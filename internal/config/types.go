// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

// Config represents the complete application configuration
type Config struct {
	Codec     CodecConfig     `mapstructure:"codec"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Storage   StorageConfig   `mapstructure:"storage"`
	History   HistoryConfig   `mapstructure:"history"`
	Render    RenderConfig    `mapstructure:"render"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// CodecConfig holds archive encoding settings
type CodecConfig struct {
	CompressionLevel  int    `mapstructure:"compression_level"` // 0 (store) to 9
	ChecksumAlgorithm string `mapstructure:"checksum_algorithm"`
}

// ValidatorConfig holds validation thresholds
type ValidatorConfig struct {
	MaxAssetBytes int64 `mapstructure:"max_asset_bytes"`
	MaxPathLength int   `mapstructure:"max_path_length"`
}

// CatalogConfig holds the index database settings
type CatalogConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Type            string `mapstructure:"type"` // "sqlite" or "postgres"
	SQLitePath      string `mapstructure:"sqlite_path"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
	Directory       string `mapstructure:"directory"`
	ReindexInterval int    `mapstructure:"reindex_interval_minutes"`
}

// StorageConfig holds remote archive storage settings
type StorageConfig struct {
	S3 S3Config `mapstructure:"s3"`
}

// S3Config holds S3-compatible object storage settings
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// HistoryConfig holds git export settings
type HistoryConfig struct {
	GitAuthor     string `mapstructure:"git_author"`
	GitEmail      string `mapstructure:"git_email"`
	DefaultBranch string `mapstructure:"default_branch"`
}

// RenderConfig holds HTML rendering settings
type RenderConfig struct {
	Sanitize bool `mapstructure:"sanitize"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// Catalog database types
const (
	CatalogSQLite   = "sqlite"
	CatalogPostgres = "postgres"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ValidLogLevels returns all valid log level values
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// isValidType is a generic helper to check if a type is in a list of valid types
func isValidType(aType string, validTypes []string) bool {
	for _, valid := range validTypes {
		if aType == valid {
			return true
		}
	}
	return false
}
