package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"vaultwire/internal/domain"
	"vaultwire/internal/relay"
	messagesvc "vaultwire/internal/services/message"
	"vaultwire/internal/vault"
)

// Wire bundles the vault, relay client, and message service for the CLI.
type Wire struct {
	Config   *Config
	Vault    *vault.Vault
	Relay    domain.RelayClient
	Messages *messagesvc.Service
	Logger   zerolog.Logger
}

// NewWire constructs the dependency graph from cfg around an opened vault.
// The vault must already exist; commands that create one call vault.Create
// directly before wiring.
func NewWire(cfg *Config, logger zerolog.Logger) (*Wire, error) {
	v, err := vault.Open(cfg.VaultDir)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout()}
	rc, err := relay.New(relay.Config{
		BaseURL:    cfg.RelayURL,
		Signer:     v,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config:   cfg,
		Vault:    v,
		Relay:    rc,
		Messages: messagesvc.New(v, rc, cfg.RelayURL, logger),
		Logger:   logger,
	}, nil
}
