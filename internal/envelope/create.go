package envelope

// NewRequest builds a request message in one call.
func NewRequest(sender, recipient, intent string, body any, ttl int, contentType string) (Message, error) {
	b := NewBuilder().
		MessageType(TypeRequest).
		Sender(sender).
		Recipient(recipient).
		Intent(intent).
		Body(body)
	if ttl > 0 {
		b.TTL(ttl)
	}
	if contentType != "" {
		b.ContentType(contentType)
	}
	return b.Build()
}

// NewResponse builds a response correlated to a prior request's id.
func NewResponse(sender, recipient, correlationID, intent string, body any, ttl int, contentType string) (Message, error) {
	b := NewBuilder().
		MessageType(TypeResponse).
		Sender(sender).
		Recipient(recipient).
		CorrelationID(correlationID).
		Intent(intent).
		Body(body)
	if ttl > 0 {
		b.TTL(ttl)
	}
	if contentType != "" {
		b.ContentType(contentType)
	}
	return b.Build()
}

// NewError builds an error message. The intent is fixed to "error" and the
// body carries the machine-readable code alongside the human-readable text.
func NewError(sender, recipient, correlationID, errorCode, errorMessage string) (Message, error) {
	b := NewBuilder().
		MessageType(TypeError).
		Sender(sender).
		Recipient(recipient).
		Intent("error").
		Body(map[string]any{
			"error_code":    errorCode,
			"error_message": errorMessage,
		})
	if correlationID != "" {
		b.CorrelationID(correlationID)
	}
	return b.Build()
}

// NewNotification builds a notification; no response is expected.
func NewNotification(sender, recipient, intent string, body any, ttl int) (Message, error) {
	b := NewBuilder().
		MessageType(TypeNotification).
		Sender(sender).
		Recipient(recipient).
		Intent(intent).
		Body(body)
	if ttl > 0 {
		b.TTL(ttl)
	}
	return b.Build()
}
