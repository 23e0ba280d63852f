package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vaultwire/internal/app"
)

func TestParseConfig(t *testing.T) {
	cfg, err := app.ParseConfig([]byte(`
relay_url: http://relay.example:5000
vault_dir: /srv/vault
timeout_seconds: 5
default_ttl: 120
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.RelayURL != "http://relay.example:5000" || cfg.VaultDir != "/srv/vault" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout())
	}
	if cfg.DefaultTTL != 120 {
		t.Fatalf("ttl = %d", cfg.DefaultTTL)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := app.ParseConfig([]byte("{}"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.RelayURL != app.DefaultRelayURL {
		t.Fatalf("relay = %q", cfg.RelayURL)
	}
	if cfg.TimeoutSeconds != 30 || cfg.DefaultTTL != 3600 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.VaultDir == "" {
		t.Fatal("no default vault dir")
	}
}

func TestParseConfig_Rejections(t *testing.T) {
	if _, err := app.ParseConfig([]byte("relay_url: [")); err == nil {
		t.Fatal("malformed YAML accepted")
	}
	if _, err := app.ParseConfig([]byte("timeout_seconds: -1")); err == nil {
		t.Fatal("negative timeout accepted")
	}
	if _, err := app.ParseConfig([]byte("default_ttl: -5")); err == nil {
		t.Fatal("negative ttl accepted")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := app.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RelayURL != app.DefaultRelayURL {
		t.Fatalf("relay = %q", cfg.RelayURL)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("relay_url: http://other:9999\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.RelayURL != "http://other:9999" {
		t.Fatalf("relay = %q", cfg.RelayURL)
	}
}
