// Package config provides centralized configuration management for the loader.
// It reads a JSON or YAML config file, lets environment variables override
// any key, applies defaults for unset values and validates the result so a
// run fails fast on misconfiguration.
package config

// Config holds all loader configuration.
// Every setting is addressed by the same key in the config file and in the
// environment.
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	Load     LoadConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URI is the PostgreSQL connection string (required)
	URI string `env:"DB_URI" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 1)
	MaxConns int `env:"DB_MAX_CONNS" default:"1"`
}

// SourceConfig locates the CSV export.
type SourceConfig struct {
	// Path is the CSV file to load (required)
	Path string `env:"FILE_PATH" required:"true"`
}

// LoadConfig holds insertion settings.
type LoadConfig struct {
	// BatchSize is the number of rows queued per round trip (default: 1000)
	BatchSize int `env:"LOAD_BATCH_SIZE" default:"1000"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
