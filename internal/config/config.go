// Package config loads the dashboard configuration from a YAML file and
// applies environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the newspulse dashboard.
type Config struct {
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Archive Archive `yaml:"archive"`
	Refresh Refresh `yaml:"refresh"`
}

// Server points at the news-intelligence API.
type Server struct {
	BaseURL string `yaml:"base_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Archive configures the optional per-session item archive. An empty path
// disables archiving.
type Archive struct {
	Path string `yaml:"path"`
}

// Refresh bounds how often manual refreshes may hit the server.
type Refresh struct {
	RatePerMin int `yaml:"rate_per_min"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// DefaultPath returns the XDG location of the config file, creating parent
// directories as needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile("newspulse/config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server:  Server{BaseURL: "http://localhost:8000"},
		Logging: Logging{Level: "info", Format: "json"},
		Refresh: Refresh{RatePerMin: 30},
	}
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides. A missing
// file is not an error: defaults are used so the dashboard runs out of the
// box against a local server.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Fall through to env overrides with defaults.
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEWSPULSE_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("NEWSPULSE_ARCHIVE_PATH"); v != "" {
		cfg.Archive.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing server.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.base_url: missing host in %q", cfg.Server.BaseURL)
	}
	if cfg.Refresh.RatePerMin <= 0 {
		cfg.Refresh.RatePerMin = 30
	}
	return nil
}

// WebSocketURL derives the live channel endpoint from the server base URL:
// the scheme mirrors the API's security level (https becomes wss, http
// becomes ws) and the path is fixed at /ws.
func (c *Config) WebSocketURL() string {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String()
}
