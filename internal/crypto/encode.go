package crypto

import (
	"encoding/base64"
	"fmt"

	"vaultwire/internal/domain"
)

// B64 returns URL-safe base64 encoding without newlines. All key material
// and blobs on the wire use this alphabet.
func B64(b []byte) string { return base64.URLEncoding.EncodeToString(b) }

// FromB64 decodes a URL-safe base64 string.
func FromB64(s string) ([]byte, error) { return base64.URLEncoding.DecodeString(s) }

// SigningPublicKeyToB64 encodes an Ed25519 public key for the wire.
func SigningPublicKeyToB64(pub domain.Ed25519Public) string { return B64(pub.Slice()) }

// EncryptionPublicKeyToB64 encodes an X25519 public key for the wire.
func EncryptionPublicKeyToB64(pub domain.X25519Public) string { return B64(pub.Slice()) }

// SigningPublicKeyFromB64 decodes an Ed25519 public key.
func SigningPublicKeyFromB64(s string) (domain.Ed25519Public, error) {
	var pub domain.Ed25519Public
	b, err := FromB64(s)
	if err != nil {
		return pub, fmt.Errorf("crypto: decode signing public key: %w", err)
	}
	if len(b) != len(pub) {
		return pub, fmt.Errorf("crypto: signing public key must be %d bytes, got %d", len(pub), len(b))
	}
	copy(pub[:], b)
	return pub, nil
}

// EncryptionPublicKeyFromB64 decodes an X25519 public key.
func EncryptionPublicKeyFromB64(s string) (domain.X25519Public, error) {
	var pub domain.X25519Public
	b, err := FromB64(s)
	if err != nil {
		return pub, fmt.Errorf("crypto: decode encryption public key: %w", err)
	}
	if len(b) != len(pub) {
		return pub, fmt.Errorf("crypto: encryption public key must be %d bytes, got %d", len(pub), len(b))
	}
	copy(pub[:], b)
	return pub, nil
}
