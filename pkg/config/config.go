// Package config provides configuration management for pbdb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml >
// defaults.
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains valid
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Environment Variables
//
// Use PBDB_ prefix with underscores for nesting:
//
//	PBDB_DATABASE_HOST=localhost
//	PBDB_DATABASE_PORT=5432
//	PBDB_LOG_LEVEL=info
package config

// Config represents the complete pbdb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Reference contains settings for reference-series downloads.
	Reference ReferenceConfig `mapstructure:"reference" yaml:"reference"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config and logs directories reside.
	// It is set by the CLI during init, there is no default for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of rows to insert per batch
	// during raw dataset ingestion. Larger batches are faster but
	// use more memory and parameters (PostgreSQL caps a statement
	// at 65535 bind parameters).
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ReferenceConfig contains settings for the external reference-data
// provider (World Bank API).
type ReferenceConfig struct {
	// APIURL is the base URL of the World Bank indicators API.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// PageSize is the number of observations requested per API page.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Level is the minimum level to log: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is either "json" or "text".
	Format string `mapstructure:"format" yaml:"format"`

	// Destination is "file", "stdout" or "stderr".
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with default values. The result is always
// valid and usable without further validation.
func New() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "pbdb",
			SSLMode:   "disable",
			BatchSize: 5000,
		},
		Reference: ReferenceConfig{
			APIURL:   "https://api.worldbank.org/v2",
			PageSize: 10000,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			Destination: "file",
		},
	}
}
