// Package message implements the outbound and inbound message flows on top
// of the vault, the envelope schema, and the relay client.
//
// It is the only component that produces transmit frames, which is how the
// protocol's central ordering invariant is enforced structurally: when a
// message is both encrypted and signed, the payload body is redacted and
// the real content moved into the encrypted blob BEFORE the signature is
// computed, so the signature always covers exactly the bytes transmitted.
// Signing plaintext and encrypting afterwards would let an intermediary
// swap ciphertexts without invalidating the signature.
package message
