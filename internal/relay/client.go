package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"vaultwire/internal/domain"
	"vaultwire/internal/envelope"
)

// Signer signs request bodies for authenticated endpoints. *vault.Vault
// satisfies it; the relay client never sees private key material.
type Signer interface {
	Sign(content any) (string, error)
	VaultID() string
}

// Config holds the wiring for a Client.
type Config struct {
	// BaseURL is the relay's base URL, e.g. "http://127.0.0.1:5000".
	BaseURL string
	// Signer authenticates requests to signed endpoints.
	Signer Signer
	// HTTPClient is used for all requests. If nil, http.DefaultClient is
	// used; give it a Timeout so in-flight calls are bounded.
	HTTPClient *http.Client
	// Logger is used for structured logging. Zero value disables output.
	Logger zerolog.Logger
}

// Client talks JSON over HTTP to the relay.
type Client struct {
	base   string
	signer Signer
	http   *http.Client
	log    zerolog.Logger
}

// New returns a Client for the relay at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("relay: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("relay: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		signer: cfg.Signer,
		http:   httpClient,
		log:    cfg.Logger,
	}, nil
}

// Health checks that the relay is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// GetChallenge asks the relay for a registration challenge bound to this
// vault's public keys.
func (c *Client) GetChallenge(ctx context.Context, identity domain.PublicIdentity) (domain.RegistrationChallenge, error) {
	body := map[string]any{
		"vault_id":              identity.VaultID,
		"signing_public_key":    identity.SigningPublicKey,
		"encryption_public_key": identity.EncryptionPublicKey,
	}
	var out domain.RegistrationChallenge
	if err := c.post(ctx, "/register/challenge", body, false, &out); err != nil {
		return domain.RegistrationChallenge{}, err
	}
	return out, nil
}

// Register completes challenge-response registration.
func (c *Client) Register(ctx context.Context, identity domain.PublicIdentity, challenge, signature, alias string) error {
	body := map[string]any{
		"vault_id":              identity.VaultID,
		"signing_public_key":    identity.SigningPublicKey,
		"encryption_public_key": identity.EncryptionPublicKey,
		"challenge":             challenge,
		"challenge_signature":   signature,
	}
	if alias != "" {
		body["alias"] = alias
	}
	return c.post(ctx, "/register", body, false, nil)
}

// SendMessage posts a signed, optionally encrypted message. The signature
// must cover envelope.SignableContent of exactly the message passed here.
func (c *Client) SendMessage(ctx context.Context, msg envelope.Message, signature string, enc *domain.EncryptedPayload) (domain.SendResult, error) {
	body := map[string]any{
		"message":   msg,
		"signature": signature,
	}
	if enc != nil {
		body["encrypted_payload"] = enc
	}
	var out domain.SendResult
	if err := c.post(ctx, "/send", body, true, &out); err != nil {
		return domain.SendResult{}, err
	}
	c.log.Debug().
		Str("message_id", out.MessageID).
		Str("recipient", out.Recipient).
		Str("conversation_id", out.ConversationID).
		Msg("message accepted by relay")
	return out, nil
}

// Receive fetches up to limit pending messages for vaultID.
func (c *Client) Receive(ctx context.Context, vaultID string, limit int) ([]domain.InboundMessage, error) {
	var out struct {
		Messages []domain.InboundMessage `json:"messages"`
	}
	path := "/receive/" + url.PathEscape(vaultID) + limitQuery(limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Acknowledge confirms receipt of a message so the relay can mark it read.
func (c *Client) Acknowledge(ctx context.Context, messageID, vaultID string) error {
	body := map[string]any{"vault_id": vaultID}
	return c.post(ctx, "/ack/"+url.PathEscape(messageID), body, true, nil)
}

// ListAgents enumerates registered agents and their public keys.
func (c *Client) ListAgents(ctx context.Context, limit int) ([]domain.AgentInfo, error) {
	var out struct {
		Agents []domain.AgentInfo `json:"agents"`
	}
	if err := c.get(ctx, "/agents"+limitQuery(limit), &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// ResolveAlias maps an alias to an agent's public identity record.
func (c *Client) ResolveAlias(ctx context.Context, alias string) (domain.AgentInfo, error) {
	var out domain.AgentInfo
	if err := c.get(ctx, "/resolve/"+url.PathEscape(alias), &out); err != nil {
		return domain.AgentInfo{}, err
	}
	return out, nil
}

// SetAlias registers or updates this vault's alias on the relay.
func (c *Client) SetAlias(ctx context.Context, vaultID, alias string) error {
	body := map[string]any{"vault_id": vaultID, "alias": alias}
	return c.post(ctx, "/alias", body, true, nil)
}

// ConversationLog fetches one conversation and its stored messages.
func (c *Client) ConversationLog(ctx context.Context, conversationID string) (domain.ConversationLog, error) {
	var out domain.ConversationLog
	if err := c.get(ctx, "/messages/"+url.PathEscape(conversationID)+"/log", &out); err != nil {
		return domain.ConversationLog{}, err
	}
	return out, nil
}

// AgentLogs fetches the conversation index for vaultID.
func (c *Client) AgentLogs(ctx context.Context, vaultID string, limit int) (domain.AgentLogs, error) {
	var out domain.AgentLogs
	if err := c.get(ctx, "/logs/"+url.PathEscape(vaultID)+limitQuery(limit), &out); err != nil {
		return domain.AgentLogs{}, err
	}
	return out, nil
}

func limitQuery(limit int) string {
	if limit <= 0 {
		return ""
	}
	return "?limit=" + strconv.Itoa(limit)
}

// post sends a JSON body. When signed is true the request carries
// X-Signature (canonical-JSON signature of the body) and X-Vault-ID headers.
func (c *Client) post(ctx context.Context, path string, body map[string]any, signed bool, out any) error {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("relay: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if signed {
		if c.signer == nil {
			return fmt.Errorf("relay: endpoint %s requires a signer", path)
		}
		sig, err := c.signer.Sign(body)
		if err != nil {
			return fmt.Errorf("relay: sign request: %w", err)
		}
		req.Header.Set("X-Signature", sig)
		req.Header.Set("X-Vault-ID", c.signer.VaultID())
	}

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	return c.do(req, out)
}

// do executes a request and maps the response. Non-2xx responses become
// *Error with the relay's code passed through; transport failures are
// wrapped so callers can distinguish them from rejections.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("relay: read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		relayErr := &Error{Code: CodeUnknown, StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, relayErr); err != nil || relayErr.Message == "" {
			relayErr.Message = strings.TrimSpace(string(body))
			if relayErr.Message == "" {
				relayErr.Message = resp.Status
			}
		}
		c.log.Debug().
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("code", relayErr.Code).
			Msg("relay rejected request")
		return relayErr
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("relay: parse response from %s: %w", req.URL.Path, err)
		}
	}
	return nil
}

// Compile-time assertion that Client implements domain.RelayClient.
var _ domain.RelayClient = (*Client)(nil)
