package envelope

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Builder accumulates envelope and payload fields and produces a complete,
// validated message via Build. Setters validate eagerly; the first setter
// error is latched and surfaced by Build so call chains stay fluent.
type Builder struct {
	env     Envelope
	payload Payload
	err     error
}

// NewBuilder returns a builder preloaded with protocol defaults.
func NewBuilder() *Builder {
	return &Builder{
		env:     Envelope{TTL: DefaultTTL, Version: ProtocolVersion},
		payload: Payload{ContentType: DefaultContentType},
	}
}

// MessageID sets an explicit message id. Build generates one when unset.
func (b *Builder) MessageID(id string) *Builder {
	b.env.ID = id
	return b
}

// MessageType sets the message type. Unrecognized types are rejected here,
// not deferred to Build.
func (b *Builder) MessageType(t MessageType) *Builder {
	if !t.Valid() {
		b.fail(&Error{Field: "type", Reason: fmt.Sprintf("invalid message type %q", t)})
		return b
	}
	b.env.Type = t
	return b
}

// CorrelationID links this message to the id of a prior request.
func (b *Builder) CorrelationID(id string) *Builder {
	b.env.CorrelationID = id
	return b
}

// Sender sets the sending vault id or alias.
func (b *Builder) Sender(id string) *Builder {
	if id == "" {
		b.fail(&Error{Field: "sender", Reason: "sender cannot be empty"})
		return b
	}
	b.env.Sender = id
	return b
}

// Recipient sets the receiving vault id or alias.
func (b *Builder) Recipient(id string) *Builder {
	if id == "" {
		b.fail(&Error{Field: "recipient", Reason: "recipient cannot be empty"})
		return b
	}
	b.env.Recipient = id
	return b
}

// Timestamp sets an explicit assembly time. Build stamps the current UTC
// time when unset.
func (b *Builder) Timestamp(ts string) *Builder {
	b.env.Timestamp = ts
	return b
}

// TTL sets the time-to-live in seconds. Non-positive values are rejected.
func (b *Builder) TTL(seconds int) *Builder {
	if seconds <= 0 {
		b.fail(&Error{Field: "ttl", Reason: "ttl must be positive"})
		return b
	}
	b.env.TTL = seconds
	return b
}

// Intent sets the payload intent.
func (b *Builder) Intent(intent string) *Builder {
	if intent == "" {
		b.fail(&Error{Field: "intent", Reason: "intent cannot be empty"})
		return b
	}
	b.payload.Intent = intent
	return b
}

// ContentType declares how the body should be interpreted.
func (b *Builder) ContentType(ct string) *Builder {
	b.payload.ContentType = ct
	return b
}

// Body sets the payload body.
func (b *Builder) Body(content any) *Builder {
	b.payload.Body = content
	return b
}

// Build assembles and validates the complete message. Missing required
// fields fail with an *Error naming the field; the assembled message is also
// checked against the serialized-size limit.
func (b *Builder) Build() (Message, error) {
	if b.err != nil {
		return Message{}, b.err
	}

	if b.env.ID == "" {
		b.env.ID = NewMessageID()
	}
	if b.env.Timestamp == "" {
		b.env.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	switch {
	case b.env.Type == "":
		return Message{}, missingField("envelope", "type")
	case b.env.Sender == "":
		return Message{}, missingField("envelope", "sender")
	case b.env.Recipient == "":
		return Message{}, missingField("envelope", "recipient")
	case b.payload.Intent == "":
		return Message{}, missingField("payload", "intent")
	}

	msg := Message{Envelope: b.env, Payload: b.payload}
	if err := ValidateSize(msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// NewMessageID returns a fresh globally unique message id: "msg_" followed
// by 32 hex characters (128 bits of randomness).
func NewMessageID() string {
	u := uuid.New()
	return "msg_" + hex.EncodeToString(u[:])
}
