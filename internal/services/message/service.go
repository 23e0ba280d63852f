package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vaultwire/internal/crypto"
	"vaultwire/internal/domain"
	"vaultwire/internal/envelope"
	"vaultwire/internal/relay"
	"vaultwire/internal/vault"
)

// Quarantine reasons recorded on inbound trust failures.
const (
	ReasonBadSignature  = "bad_signature"
	ReasonUnknownSender = "unknown_sender"
	ReasonExpired       = "expired"
	ReasonMalformed     = "malformed"
)

// ErrRecipientNotFound is returned when a recipient reference resolves to
// neither an alias nor a registered vault id.
var ErrRecipientNotFound = errors.New("message: recipient not found")

// Service drives the send and receive flows for one vault.
type Service struct {
	vault    *vault.Vault
	relay    domain.RelayClient
	relayURL string
	log      zerolog.Logger
	now      func() time.Time
}

// New constructs a Service. relayURL identifies the relay in the vault's
// per-server registration state.
func New(v *vault.Vault, rc domain.RelayClient, relayURL string, log zerolog.Logger) *Service {
	return &Service{
		vault:    v,
		relay:    rc,
		relayURL: relayURL,
		log:      log,
		now:      time.Now,
	}
}

// SendOptions control the outbound flow.
type SendOptions struct {
	// Encrypt moves the payload into an encrypted blob for the recipient
	// before signing. Requires the recipient to be resolvable on the relay.
	Encrypt bool
}

// Register runs challenge-response registration with the relay and records
// the result in the vault's per-server state.
func (s *Service) Register(ctx context.Context, alias string) error {
	identity := s.vault.PublicIdentity()

	ch, err := s.relay.GetChallenge(ctx, identity)
	if err != nil {
		return fmt.Errorf("message: fetch challenge: %w", err)
	}
	sig := s.vault.SignChallenge(ch.Challenge)
	if err := s.relay.Register(ctx, identity, ch.Challenge, sig, alias); err != nil {
		return fmt.Errorf("message: register: %w", err)
	}

	state := domain.ServerState{
		Registered:   true,
		RegisteredAt: s.now().UTC().Format(time.RFC3339Nano),
		Alias:        alias,
	}
	if err := s.vault.SetServerState(s.relayURL, state); err != nil {
		return fmt.Errorf("message: record registration: %w", err)
	}
	s.log.Info().Str("vault_id", identity.VaultID).Str("alias", alias).Msg("registered with relay")
	return nil
}

// ResolveRecipient maps an alias or vault id to the recipient's public
// identity record. Aliases are tried first; a reference that fails alias
// resolution is matched against the registered agent list by vault id.
func (s *Service) ResolveRecipient(ctx context.Context, ref string) (domain.AgentInfo, error) {
	info, err := s.relay.ResolveAlias(ctx, ref)
	if err == nil {
		return info, nil
	}
	var relayErr *relay.Error
	if !errors.As(err, &relayErr) {
		return domain.AgentInfo{}, err
	}

	agents, err := s.relay.ListAgents(ctx, 500)
	if err != nil {
		return domain.AgentInfo{}, err
	}
	for _, agent := range agents {
		if agent.VaultID == ref {
			return agent, nil
		}
	}
	return domain.AgentInfo{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, ref)
}

// Send transmits a built message. This is the only signing path in the
// program: encryption, when requested, happens strictly before the
// signature is computed, so the signature covers the redacted payload and
// the transmitted bytes are exactly what was signed. The message is
// appended to local history once the relay accepts it.
//
// Send does not retry. The message id was fixed at build time, so a caller
// that resends the same built message cannot create a duplicate logical
// message; deduplication by id is the relay's concern.
func (s *Service) Send(ctx context.Context, msg envelope.Message, opts SendOptions) (domain.SendResult, error) {
	var encrypted *domain.EncryptedPayload
	if opts.Encrypt {
		recipient, err := s.ResolveRecipient(ctx, msg.Envelope.Recipient)
		if err != nil {
			return domain.SendResult{}, err
		}
		encKey, err := crypto.EncryptionPublicKeyFromB64(recipient.EncryptionPublicKey)
		if err != nil {
			return domain.SendResult{}, fmt.Errorf("message: recipient %s: %w", recipient.VaultID, err)
		}
		blob, err := crypto.EncryptJSON(encKey, msg.Payload)
		if err != nil {
			return domain.SendResult{}, fmt.Errorf("message: encrypt payload: %w", err)
		}
		encrypted = &blob
		// Redact the plaintext from the signed content. The placeholder is
		// covered by the signature; the blob travels outside it.
		msg.Payload.Body = envelope.EncryptedBody()
	}

	signature, err := s.vault.Sign(envelope.SignableContent(msg))
	if err != nil {
		return domain.SendResult{}, fmt.Errorf("message: sign: %w", err)
	}

	result, err := s.relay.SendMessage(ctx, msg, signature, encrypted)
	if err != nil {
		return domain.SendResult{}, err
	}

	if err := s.vault.SaveMessage(msg, vault.DirectionSent); err != nil {
		// The relay accepted the message; a history failure must not
		// convert a delivered send into an error.
		s.log.Warn().Err(err).Str("message_id", result.MessageID).Msg("failed to append sent message to history")
	}

	s.log.Info().
		Str("message_id", result.MessageID).
		Str("recipient", result.Recipient).
		Bool("encrypted", opts.Encrypt).
		Msg("message sent")
	return result, nil
}

// ReceiveOptions control the inbound flow.
type ReceiveOptions struct {
	// Limit bounds how many pending messages are fetched.
	Limit int
	// Decrypt opens encrypted payloads addressed to this vault.
	Decrypt bool
}

// Received is the processed form of one inbound message.
type Received struct {
	MessageID        string           `json:"message_id"`
	Sender           string           `json:"sender"`
	SenderAlias      string           `json:"sender_alias,omitempty"`
	ReceivedAt       string           `json:"received_at"`
	Message          envelope.Message `json:"message"`
	Verified         bool             `json:"verified"`
	Decrypted        bool             `json:"decrypted"`
	Quarantined      bool             `json:"quarantined"`
	QuarantineReason string           `json:"quarantine_reason,omitempty"`
	KnownContact     bool             `json:"known_contact"`
}

// Receive fetches pending messages, verifies each signature against the
// sender's registered signing key, validates the envelope, applies the
// expiry and unknown-sender policies, decrypts when asked, and appends the
// outcome to history or quarantine. Processed messages are acknowledged so
// the relay stops redelivering them; trust failures are quarantined, never
// silently dropped.
func (s *Service) Receive(ctx context.Context, opts ReceiveOptions) ([]Received, error) {
	inbound, err := s.relay.Receive(ctx, s.vault.VaultID(), opts.Limit)
	if err != nil {
		return nil, err
	}
	if len(inbound) == 0 {
		return nil, nil
	}

	agents := s.agentIndex(ctx)

	results := make([]Received, 0, len(inbound))
	for _, in := range inbound {
		r := s.processInbound(in, agents, opts)
		if err := s.relay.Acknowledge(ctx, in.MessageID, s.vault.VaultID()); err != nil {
			s.log.Warn().Err(err).Str("message_id", in.MessageID).Msg("failed to acknowledge message")
		}
		results = append(results, r)
	}
	return results, nil
}

// processInbound classifies one inbound message and records it locally.
func (s *Service) processInbound(in domain.InboundMessage, agents map[string]domain.AgentInfo, opts ReceiveOptions) Received {
	r := Received{
		MessageID:  in.MessageID,
		Sender:     in.Sender,
		ReceivedAt: in.ReceivedAt,
		Message:    in.Message,
	}
	if agent, ok := agents[in.Sender]; ok {
		r.SenderAlias = agent.Alias
	}
	r.KnownContact = s.vault.IsKnownContact(in.Sender)

	if reason := s.trustCheck(in, agents); reason != "" {
		r.Quarantined = true
		r.QuarantineReason = reason
		if err := s.vault.Quarantine(in.Message, reason); err != nil {
			s.log.Error().Err(err).Str("message_id", in.MessageID).Msg("failed to quarantine message")
		}
		s.log.Warn().
			Str("message_id", in.MessageID).
			Str("sender", in.Sender).
			Str("reason", reason).
			Msg("inbound message quarantined")
		return r
	}
	r.Verified = true

	if opts.Decrypt && in.EncryptedPayload != nil {
		var payload envelope.Payload
		if err := s.vault.Decrypt(*in.EncryptedPayload, &payload); err != nil {
			s.log.Warn().Err(err).Str("message_id", in.MessageID).Msg("failed to decrypt payload")
		} else {
			r.Message.Payload = payload
			r.Decrypted = true
		}
	}

	// History records the message as transmitted: the redacted payload, not
	// the decrypted one, so the stored entry still matches its signature.
	if err := s.vault.SaveMessage(in.Message, vault.DirectionReceived); err != nil {
		s.log.Error().Err(err).Str("message_id", in.MessageID).Msg("failed to append received message to history")
	}
	return r
}

// trustCheck returns a quarantine reason, or "" when the message passes
// signature verification, schema validation, expiry, and sender policy.
func (s *Service) trustCheck(in domain.InboundMessage, agents map[string]domain.AgentInfo) string {
	agent, ok := agents[in.Sender]
	if !ok || agent.SigningPublicKey == "" {
		return ReasonBadSignature
	}
	pub, err := crypto.SigningPublicKeyFromB64(agent.SigningPublicKey)
	if err != nil {
		return ReasonBadSignature
	}
	if err := crypto.VerifyJSON(pub, envelope.SignableContent(in.Message), in.Signature); err != nil {
		return ReasonBadSignature
	}
	if err := envelope.Validate(in.Message); err != nil {
		return ReasonMalformed
	}
	if envelope.IsExpired(in.Message, s.now()) {
		return ReasonExpired
	}
	if s.vault.ShouldQuarantine(in.Sender) {
		return ReasonUnknownSender
	}
	return ""
}

// agentIndex fetches the registered agent list keyed by vault id. A relay
// failure yields an empty index; verification then fails closed.
func (s *Service) agentIndex(ctx context.Context) map[string]domain.AgentInfo {
	agents, err := s.relay.ListAgents(ctx, 500)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list agents for signature verification")
		return nil
	}
	index := make(map[string]domain.AgentInfo, len(agents))
	for _, a := range agents {
		index[a.VaultID] = a
	}
	return index
}
