// Package crypto centralizes every cryptographic primitive used by vaultwire
// so the whole surface can be audited in one place.
//
// Contents
//
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Hybrid public-key encryption of structured payloads: ephemeral X25519,
//     HKDF-SHA256 key derivation, AES-256-GCM (Encrypt, Decrypt)
//   - Deterministic canonical-JSON signing (SignJSON, VerifyJSON)
//   - Registration challenge helpers (NewChallenge, SignChallenge,
//     VerifyChallenge)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Signing keys and encryption keys are generated independently and must
// never be conflated: Ed25519 material is only ever passed to the signing
// functions and X25519 material only to the encryption functions, enforced
// by the fixed-size array types defined in internal/domain.
package crypto
