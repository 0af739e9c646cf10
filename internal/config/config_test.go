package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	yamlContent := []byte(`
server:
  base_url: "https://news.example.com"
logging:
  level: "debug"
  format: "json"
archive:
  path: "/tmp/newspulse/archive.db"
refresh:
  rate_per_min: 12
`)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("NEWSPULSE_SERVER_URL")
	os.Unsetenv("NEWSPULSE_ARCHIVE_PATH")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.BaseURL != "https://news.example.com" {
		t.Errorf("Server.BaseURL = %q, want %q", cfg.Server.BaseURL, "https://news.example.com")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Archive.Path != "/tmp/newspulse/archive.db" {
		t.Errorf("Archive.Path = %q, want %q", cfg.Archive.Path, "/tmp/newspulse/archive.db")
	}
	if cfg.Refresh.RatePerMin != 12 {
		t.Errorf("Refresh.RatePerMin = %d, want %d", cfg.Refresh.RatePerMin, 12)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	os.Unsetenv("NEWSPULSE_SERVER_URL")
	os.Unsetenv("NEWSPULSE_ARCHIVE_PATH")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() returned error for missing file: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("default Server.BaseURL = %q, want %q", cfg.Server.BaseURL, "http://localhost:8000")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Archive.Path != "" {
		t.Errorf("default Archive.Path = %q, want empty (disabled)", cfg.Archive.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
server:
  base_url: "http://yaml-host:8000"
logging:
  level: "info"
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	t.Setenv("NEWSPULSE_SERVER_URL", "https://env-host")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("NEWSPULSE_ARCHIVE_PATH", "/tmp/env-archive.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.BaseURL != "https://env-host" {
		t.Errorf("Server.BaseURL = %q, want env override %q", cfg.Server.BaseURL, "https://env-host")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override %q", cfg.Logging.Level, "warn")
	}
	if cfg.Archive.Path != "/tmp/env-archive.db" {
		t.Errorf("Archive.Path = %q, want env override", cfg.Archive.Path)
	}
}

func TestLoadRejectsBadURL(t *testing.T) {
	yamlContent := []byte(`
server:
  base_url: "ftp://wrong"
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	os.Unsetenv("NEWSPULSE_SERVER_URL")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted an ftp base URL")
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws"},
		{"https://news.example.com", "wss://news.example.com/ws"},
		{"https://news.example.com/dashboard?x=1", "wss://news.example.com/ws"},
	}
	for _, tt := range tests {
		cfg := &Config{Server: Server{BaseURL: tt.base}}
		if got := cfg.WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
