package envelope

// Accessors below are total: they return zero values on malformed input so
// that logging and inspection code can run over anything pulled off the wire
// or out of quarantine.

// MessageID returns the envelope id, or "" when absent.
func MessageID(msg Message) string { return msg.Envelope.ID }

// Sender returns the envelope sender, or "" when absent.
func Sender(msg Message) string { return msg.Envelope.Sender }

// Recipient returns the envelope recipient, or "" when absent.
func Recipient(msg Message) string { return msg.Envelope.Recipient }

// CorrelationID returns the envelope correlation id, or "" when absent.
func CorrelationID(msg Message) string { return msg.Envelope.CorrelationID }

// Intent returns the payload intent, or "" when absent.
func Intent(msg Message) string { return msg.Payload.Intent }

// Body returns the payload body, which may be nil.
func Body(msg Message) any { return msg.Payload.Body }
