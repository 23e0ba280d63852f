package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRelayURL is used when neither config file nor flag names a relay.
const DefaultRelayURL = "http://127.0.0.1:5000"

// Config holds runtime settings, loaded from an optional YAML file and
// overridden by command-line flags.
type Config struct {
	// RelayURL is the relay server base URL.
	RelayURL string `yaml:"relay_url"`
	// VaultDir is the vault directory for this agent's identity.
	VaultDir string `yaml:"vault_dir"`
	// TimeoutSeconds bounds every relay round trip.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// DefaultTTL is applied to built messages when the caller gives none,
	// in seconds.
	DefaultTTL int `yaml:"default_ttl"`
}

// Timeout returns the relay call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads a YAML config file. A missing file is not an error: the
// returned config then carries defaults only.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig unmarshals YAML bytes into a validated Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RelayURL == "" {
		c.RelayURL = DefaultRelayURL
	}
	if c.VaultDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.VaultDir = filepath.Join(home, ".vaultwire", "vault")
		}
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = 3600
	}
}

func (c *Config) validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config: timeout_seconds must be positive")
	}
	if c.DefaultTTL < 0 {
		return fmt.Errorf("config: default_ttl must be positive")
	}
	return nil
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vaultwire", "config.yaml")
}
