// Package config tests for configuration loading.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/harvestlane/contactsync/internal/errors"
)

// TestLoad_defaults verifies defaults apply without a config file.
func TestLoad_defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)
	assert.Equal(t, "./data", cfg.Data.Dir)
	assert.Equal(t, 900, cfg.Sync.ResyncIntervalSeconds)
}

// TestLoad_file verifies YAML values override defaults.
func TestLoad_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://forms.example.com
  timeout_seconds: 5
data:
  dir: /var/lib/contactsync
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://forms.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSeconds)
	assert.Equal(t, "/var/lib/contactsync", cfg.Data.Dir)
	// Untouched sections keep defaults.
	assert.Equal(t, 30, cfg.Sync.ProbeIntervalSeconds)
}

// TestLoad_envOverrides verifies environment variables win over file values.
func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("CONTACTSYNC_API_URL", "http://10.0.0.2:9000")
	t.Setenv("API_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("API_TIMEOUT", "20")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:9000", cfg.API.BaseURL)
	assert.Equal(t, "anthropic", cfg.Analysis.Provider)
	assert.Equal(t, "sk-test", cfg.Analysis.APIKey)
	assert.Equal(t, 20, cfg.API.TimeoutSeconds)
}

// TestLoad_invalidProvider verifies unknown providers are rejected.
func TestLoad_invalidProvider(t *testing.T) {
	t.Setenv("API_PROVIDER", "watson")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
}

// TestLoad_missingFile verifies a missing file is an error.
func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
}

// TestLoad_badYAML verifies malformed YAML is an error.
func TestLoad_badYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

// TestAPIConfig_Timeout verifies the duration conversion.
func TestAPIConfig_Timeout(t *testing.T) {
	c := APIConfig{TimeoutSeconds: 15}
	assert.Equal(t, "15s", c.Timeout().String())
}

// TestServerConfig_Addr verifies address formatting.
func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 5000}
	assert.Equal(t, "127.0.0.1:5000", c.Addr())
}
