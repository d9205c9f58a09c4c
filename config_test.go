package dashboard_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dashboard "github.com/bilalattari/kaacib-company-dashboard-sub000"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads the YAML file", func(t *testing.T) {
		path := writeConfig(t, `
api_base_url: https://api.kaacib.app
credentials_file: /tmp/kaacib-creds.json
environment: staging
log_level: debug
cache_ttl: 5m
`)

		cfg, err := dashboard.LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "https://api.kaacib.app", cfg.APIBaseURL)
		require.Equal(t, "/tmp/kaacib-creds.json", cfg.CredentialsFile)
		require.Equal(t, "staging", cfg.Environment)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, 5*time.Minute, cfg.CacheTTL)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, `
api_base_url: https://api.kaacib.app
environment: staging
`)
		t.Setenv("KAACIB_API_URL", "https://api-override.kaacib.app")
		t.Setenv("KAACIB_ENVIRONMENT", "production")
		t.Setenv("KAACIB_CACHE_TTL", "90s")

		cfg, err := dashboard.LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "https://api-override.kaacib.app", cfg.APIBaseURL)
		require.Equal(t, "production", cfg.Environment)
		require.Equal(t, 90*time.Second, cfg.CacheTTL)
	})

	t.Run("environment alone is enough", func(t *testing.T) {
		t.Setenv("KAACIB_API_URL", "https://api.kaacib.app")

		cfg, err := dashboard.LoadConfig("")
		require.NoError(t, err)
		require.Equal(t, "https://api.kaacib.app", cfg.APIBaseURL)
	})

	t.Run("missing API URL is rejected", func(t *testing.T) {
		path := writeConfig(t, `environment: staging`)

		_, err := dashboard.LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("unreadable file is an error", func(t *testing.T) {
		_, err := dashboard.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})

	t.Run("malformed YAML is an error", func(t *testing.T) {
		path := writeConfig(t, "api_base_url: [unclosed")

		_, err := dashboard.LoadConfig(path)
		require.Error(t, err)
	})
}
