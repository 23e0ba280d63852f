package relay

import (
	"errors"
	"fmt"
)

// Error is a structured rejection from the relay. Callers use errors.As to
// extract the machine-readable code:
//
//	var relayErr *relay.Error
//	if errors.As(err, &relayErr) {
//	    if relayErr.Code == relay.CodeUnknownRecipient { ... }
//	}
type Error struct {
	// Code is the relay's machine-readable error code, passed through
	// unmodified so tooling can branch on it.
	Code string `json:"code"`
	// Message is the human-readable description from the relay.
	Message string `json:"error"`
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("relay: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Error codes the relay is known to return.
const (
	CodeAuthRequired     = "auth_required"
	CodeAccessDenied     = "access_denied"
	CodeUnknownRecipient = "unknown_recipient"
	CodeUnknownAlias     = "unknown_alias"
	CodeAliasTaken       = "alias_taken"
	CodeBadSignature     = "bad_signature"
	CodeMessageTooLarge  = "message_too_large"
	CodeExpired          = "expired"
	CodeNotFound         = "not_found"
	CodeUnknown          = "error"
)

// IsError reports whether err is a *Error with the given relay code.
func IsError(err error, code string) bool {
	var relayErr *Error
	if errors.As(err, &relayErr) {
		return relayErr.Code == code
	}
	return false
}
