package domain

import (
	"context"

	"vaultwire/internal/envelope"
)

// AgentInfo is the relay's public record of a registered agent, as returned
// by alias resolution and agent listing. The encryption key is required
// before sending that agent an encrypted message.
type AgentInfo struct {
	VaultID             string `json:"vault_id"`
	Alias               string `json:"alias,omitempty"`
	SigningPublicKey    string `json:"signing_public_key"`
	EncryptionPublicKey string `json:"encryption_public_key"`
	LastSeen            string `json:"last_seen,omitempty"`
}

// SendResult is the relay's acknowledgment of an accepted message.
type SendResult struct {
	MessageID      string `json:"message_id"`
	Recipient      string `json:"recipient"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// InboundMessage is one stored message delivered by the relay.
type InboundMessage struct {
	MessageID        string            `json:"message_id"`
	Sender           string            `json:"sender"`
	Message          envelope.Message  `json:"message"`
	Signature        string            `json:"signature"`
	EncryptedPayload *EncryptedPayload `json:"encrypted_payload,omitempty"`
	ReceivedAt       string            `json:"received_at"`
}

// Conversation is the relay's thread between one unordered pair of agents.
// Read-only from the client's perspective.
type Conversation struct {
	ID            string `json:"id"`
	ParticipantA  string `json:"participant_a"`
	ParticipantB  string `json:"participant_b"`
	MessageCount  int    `json:"message_count"`
	LastMessageAt string `json:"last_message_at,omitempty"`
}

// ConversationLog pairs a conversation with its stored messages.
type ConversationLog struct {
	Conversation Conversation     `json:"conversation"`
	Messages     []InboundMessage `json:"messages"`
}

// AgentLogs lists the conversations this agent participates in.
type AgentLogs struct {
	Conversations []Conversation `json:"conversations"`
}

// RegistrationChallenge is issued by the relay and must be signed with the
// vault's signing key to complete registration.
type RegistrationChallenge struct {
	Challenge string `json:"challenge"`
}

// RelayClient is how we talk to the relay server, all with context. The
// relay is an external collaborator: it stores and forwards signed envelopes
// between vaults, threads them into conversations, and resolves aliases.
type RelayClient interface {
	Health(ctx context.Context) error
	GetChallenge(ctx context.Context, identity PublicIdentity) (RegistrationChallenge, error)
	Register(ctx context.Context, identity PublicIdentity, challenge, signature, alias string) error
	SendMessage(ctx context.Context, msg envelope.Message, signature string, enc *EncryptedPayload) (SendResult, error)
	Receive(ctx context.Context, vaultID string, limit int) ([]InboundMessage, error)
	Acknowledge(ctx context.Context, messageID, vaultID string) error
	ListAgents(ctx context.Context, limit int) ([]AgentInfo, error)
	ResolveAlias(ctx context.Context, alias string) (AgentInfo, error)
	SetAlias(ctx context.Context, vaultID, alias string) error
	ConversationLog(ctx context.Context, conversationID string) (ConversationLog, error)
	AgentLogs(ctx context.Context, vaultID string, limit int) (AgentLogs, error)
}
