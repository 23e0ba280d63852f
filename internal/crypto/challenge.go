package crypto

import (
	"crypto/rand"

	"vaultwire/internal/domain"
)

// NewChallenge returns a random 256-bit challenge for relay registration.
func NewChallenge() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return B64(b), nil
}

// SignChallenge signs the challenge string with the vault's signing key.
func SignChallenge(priv domain.Ed25519Private, challenge string) string {
	return B64(SignEd25519(priv, []byte(challenge)))
}

// VerifyChallenge verifies a signed challenge. Returns ErrSignature on
// failure.
func VerifyChallenge(pub domain.Ed25519Public, challenge, signatureB64 string) error {
	sig, err := FromB64(signatureB64)
	if err != nil {
		return ErrSignature
	}
	if !VerifyEd25519(pub, []byte(challenge), sig) {
		return ErrSignature
	}
	return nil
}
