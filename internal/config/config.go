package config

import "time"

// Config represents the complete application configuration, loaded in
// three layers: built-in defaults, an optional YAML file, and
// SENDLENS_* environment variables.
type Config struct {
	Platform PlatformConfig `mapstructure:"platform"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// PlatformConfig describes the remote campaign platform connection.
type PlatformConfig struct {
	// APIKey authenticates every remote call. Comes from config file
	// or SENDLENS_PLATFORM_API_KEY; never from a flag.
	APIKey string `mapstructure:"api_key"`

	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// MaxAccounts overrides the pagination safety bound.
	MaxAccounts int `mapstructure:"max_accounts"`

	// ThrottlePerSecond smooths outbound request rate on top of the
	// observed quota window. Zero disables the throttle.
	ThrottlePerSecond float64 `mapstructure:"throttle_per_second"`
}

// ServerConfig contains HTTP mode configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}
