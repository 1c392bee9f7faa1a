// Package config provides centralized configuration management.
// Loading is layered: built-in defaults, then an optional YAML file
// (explicit --config path or ~/.config/sendlens/config.yaml), then
// SENDLENS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SENDLENS"

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// Load reads configuration through viper and caches the decoded
// result. An explicit path must exist; the default user config file is
// optional.
func Load(path string) (*Config, error) {
	v := viper.GetViper()
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sendlens"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		// The default user config file is optional; an explicit path
		// is not.
		if path != "" || !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	configMu.Lock()
	appConfig = &cfg
	configMu.Unlock()

	return &cfg, nil
}

// Get returns the cached configuration, loading defaults when Load has
// not run yet.
func Get() *Config {
	configMu.RLock()
	cached := appConfig
	configMu.RUnlock()
	if cached != nil {
		return cached
	}

	cfg, err := Load("")
	if err != nil {
		cfg = &Config{}
		applyStructDefaults(cfg)
	}
	return cfg
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("platform.base_url", "https://api.instantly.ai/api/v2")
	v.SetDefault("platform.timeout", 30*time.Second)
	v.SetDefault("platform.max_accounts", 10000)
	v.SetDefault("platform.throttle_per_second", 0.0)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
}

func applyStructDefaults(cfg *Config) {
	if cfg.Platform.BaseURL == "" {
		cfg.Platform.BaseURL = "https://api.instantly.ai/api/v2"
	}
	if cfg.Platform.Timeout == 0 {
		cfg.Platform.Timeout = 30 * time.Second
	}
	if cfg.Platform.MaxAccounts == 0 {
		cfg.Platform.MaxAccounts = 10000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
