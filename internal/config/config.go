// Package config loads contactsync configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harvestlane/contactsync/internal/errors"
)

// Config holds all runtime configuration.
type Config struct {
	// API is the remote form API consumed by the submission client.
	API APIConfig `yaml:"api"`

	// Data holds local persistence settings.
	Data DataConfig `yaml:"data"`

	// Sync holds background sync settings.
	Sync SyncConfig `yaml:"sync"`

	// Analysis holds message analysis provider settings.
	Analysis AnalysisConfig `yaml:"analysis"`

	// Server holds reference API server settings.
	Server ServerConfig `yaml:"server"`
}

// APIConfig configures the remote API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds every request. The default of 15s tolerates
	// slow cold-start backends.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DataConfig configures local persistence.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// SyncConfig configures the background sync scheduler.
type SyncConfig struct {
	ResyncIntervalSeconds int `yaml:"resync_interval_seconds"`
	ProbeIntervalSeconds  int `yaml:"probe_interval_seconds"`
}

// ResyncInterval returns the periodic resync interval.
func (c SyncConfig) ResyncInterval() time.Duration {
	return time.Duration(c.ResyncIntervalSeconds) * time.Second
}

// ProbeInterval returns the connectivity probe interval.
func (c SyncConfig) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// AnalysisConfig configures the AI analysis provider.
type AnalysisConfig struct {
	Provider       string `yaml:"provider"` // openai, anthropic, or empty for heuristic only
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	Endpoint       string `yaml:"endpoint"` // override, mainly for tests
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the analysis request timeout.
func (c AnalysisConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig configures the reference API server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 15,
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Sync: SyncConfig{
			ResyncIntervalSeconds: 900,
			ProbeIntervalSeconds:  30,
		},
		Analysis: AnalysisConfig{
			Provider:       "",
			Model:          "gpt-3.5-turbo",
			TimeoutSeconds: 15,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
	}
}

// Load reads configuration from path (optional, may be "") and applies
// environment variable overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config file", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides config values from the environment. The analysis
// variables keep the names the original deployment used.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CONTACTSYNC_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CONTACTSYNC_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
			cfg.Analysis.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("API_PROVIDER"); v != "" {
		cfg.Analysis.Provider = v
	}
	if v := os.Getenv("API_MODEL"); v != "" {
		cfg.Analysis.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Analysis.APIKey == "" {
		cfg.Analysis.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.Analysis.APIKey == "" {
		cfg.Analysis.APIKey = v
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New(errors.ErrConfigInvalid, "api.base_url must not be empty")
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New(errors.ErrConfigInvalid, "api.timeout_seconds must be positive")
	}
	if c.Data.Dir == "" {
		return errors.New(errors.ErrConfigInvalid, "data.dir must not be empty")
	}
	switch c.Analysis.Provider {
	case "", "openai", "anthropic":
	default:
		return errors.New(errors.ErrConfigInvalid,
			fmt.Sprintf("unknown analysis provider: %s", c.Analysis.Provider))
	}
	return nil
}
