package envelope

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProtocolVersion is the wire protocol version. Messages carrying any other
// version are rejected by Validate.
const ProtocolVersion = "1.0"

// MaxMessageSize is the hard limit on the serialized form of a message.
const MaxMessageSize = 64 * 1024

// DefaultTTL is the message time-to-live applied when the builder is not
// given one, in seconds.
const DefaultTTL = 3600

// DefaultContentType is assumed when the builder is not given one.
const DefaultContentType = "application/json"

// ContentTypeText declares a plain-text body.
const ContentTypeText = "text/plain"

// MessageType tags the four message shapes of the protocol.
type MessageType string

const (
	TypeRequest      MessageType = "request"
	TypeResponse     MessageType = "response"
	TypeNotification MessageType = "notification"
	TypeError        MessageType = "error"
)

// Valid reports whether t is one of the four recognized message types.
func (t MessageType) Valid() bool {
	switch t {
	case TypeRequest, TypeResponse, TypeNotification, TypeError:
		return true
	}
	return false
}

// Envelope is the fixed metadata section of a message.
type Envelope struct {
	ID            string      `json:"id"`
	Type          MessageType `json:"type"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Sender        string      `json:"sender"`
	Recipient     string      `json:"recipient"`
	Timestamp     string      `json:"timestamp"`
	TTL           int         `json:"ttl"`
	Version       string      `json:"version"`
}

// Payload is the application-defined section of a message. Body is opaque to
// the protocol; when the payload is encrypted for transport, Body holds the
// EncryptedBody placeholder and the real content travels in a sibling blob
// outside the signed content.
type Payload struct {
	Intent      string `json:"intent"`
	ContentType string `json:"content_type"`
	Body        any    `json:"body"`
}

// Message is the unit exchanged between agents: envelope plus payload.
type Message struct {
	Envelope Envelope `json:"envelope"`
	Payload  Payload  `json:"payload"`
}

// EncryptedBody is the placeholder that replaces Payload.Body when the real
// body has been moved into an encrypted blob. The placeholder is part of the
// signed content, so a verifier sees proof that the plaintext was redacted
// deliberately.
func EncryptedBody() map[string]any {
	return map[string]any{"_encrypted": true}
}

// Error reports a schema or validation failure. Field names the envelope or
// payload field at fault when one can be singled out.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("envelope: %s: %s", e.Field, e.Reason)
	}
	return "envelope: " + e.Reason
}

func missingField(section, field string) *Error {
	return &Error{Field: field, Reason: "missing required " + section + " field"}
}

// Serialize returns the compact JSON wire form of the message.
func Serialize(msg Message) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, &Error{Reason: "serialize: " + err.Error()}
	}
	return b, nil
}

// Parse decodes a wire-form message. It does not validate; callers must run
// Validate on anything that arrived from the network.
func Parse(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, &Error{Reason: "parse: " + err.Error()}
	}
	return msg, nil
}

// ValidateSize enforces the serialized-size limit.
func ValidateSize(msg Message) error {
	b, err := Serialize(msg)
	if err != nil {
		return err
	}
	if len(b) > MaxMessageSize {
		return &Error{Reason: fmt.Sprintf("message size %d bytes exceeds limit %d bytes", len(b), MaxMessageSize)}
	}
	return nil
}

// Validate re-checks every builder invariant plus protocol version equality.
// It is the only validation path trusted for messages that arrived from the
// wire rather than being built locally.
func Validate(msg Message) error {
	env := msg.Envelope

	switch {
	case env.ID == "":
		return missingField("envelope", "id")
	case env.Type == "":
		return missingField("envelope", "type")
	case env.Sender == "":
		return missingField("envelope", "sender")
	case env.Recipient == "":
		return missingField("envelope", "recipient")
	case env.Timestamp == "":
		return missingField("envelope", "timestamp")
	case env.Version == "":
		return missingField("envelope", "version")
	}

	if !env.Type.Valid() {
		return &Error{Field: "type", Reason: fmt.Sprintf("invalid message type %q", env.Type)}
	}
	if env.Version != ProtocolVersion {
		return &Error{Field: "version", Reason: fmt.Sprintf("unsupported protocol version %q", env.Version)}
	}
	if env.TTL <= 0 {
		return &Error{Field: "ttl", Reason: "ttl must be positive"}
	}
	if msg.Payload.Intent == "" {
		return missingField("payload", "intent")
	}

	return ValidateSize(msg)
}

// IsExpired reports whether the message's TTL has elapsed at now. A missing
// or unparsable timestamp counts as expired.
func IsExpired(msg Message, now time.Time) bool {
	ts := msg.Envelope.Timestamp
	if ts == "" {
		return true
	}
	sent, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return true
	}
	ttl := msg.Envelope.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Sub(sent) > time.Duration(ttl)*time.Second
}

// SignableContent returns exactly the two sections covered by a signature.
// Transport framing such as an encrypted_payload sibling blob is deliberately
// outside this, so verification is reproducible from the message alone.
func SignableContent(msg Message) map[string]any {
	return map[string]any{
		"envelope": msg.Envelope,
		"payload":  msg.Payload,
	}
}
