package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "platform:\n  api_key: test-key\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "test-key", cfg.Platform.APIKey)
	require.Equal(t, "https://api.instantly.ai/api/v2", cfg.Platform.BaseURL)
	require.Equal(t, 30*time.Second, cfg.Platform.Timeout)
	require.Equal(t, 10000, cfg.Platform.MaxAccounts)
	require.Equal(t, "localhost", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.Metrics.Enabled)
}

func TestLoadReadsFileValues(t *testing.T) {
	path := writeConfigFile(t, `
platform:
  api_key: file-key
  base_url: https://platform.test/api/v2
  timeout: 5s
  max_accounts: 500
server:
  port: 9999
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "file-key", cfg.Platform.APIKey)
	require.Equal(t, "https://platform.test/api/v2", cfg.Platform.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Platform.Timeout)
	require.Equal(t, 500, cfg.Platform.MaxAccounts)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "platform:\n  api_key: file-key\n")
	t.Setenv("SENDLENS_PLATFORM_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Platform.APIKey)
}

func TestLoadFailsOnMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestGetReturnsCachedConfig(t *testing.T) {
	path := writeConfigFile(t, "platform:\n  api_key: cached-key\n")

	_, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "cached-key", Get().Platform.APIKey)
}
