package crypto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"vaultwire/internal/domain"
)

// CanonicalJSON produces a deterministic serialization of v: object keys
// sorted lexicographically at every nesting level, compact separators, no
// HTML escaping. The output is identical regardless of field declaration
// order, so it is the form all signatures are computed over.
func CanonicalJSON(v any) ([]byte, error) {
	// Round-trip through the generic representation. Go serializes
	// map[string]any with sorted keys, which gives the sorted-at-every-level
	// property for free once structs have been flattened to maps.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("crypto: canonicalize: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("crypto: canonicalize: %w", err)
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("crypto: canonicalize: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SignJSON signs the canonical form of v with priv and returns the
// URL-safe base64 signature.
func SignJSON(priv domain.Ed25519Private, v any) (string, error) {
	msg, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return B64(SignEd25519(priv, msg)), nil
}

// VerifyJSON verifies a base64 signature over the canonical form of v.
// It returns ErrSignature when verification fails.
func VerifyJSON(pub domain.Ed25519Public, v any, signatureB64 string) error {
	msg, err := CanonicalJSON(v)
	if err != nil {
		return err
	}
	sig, err := FromB64(signatureB64)
	if err != nil {
		return fmt.Errorf("%w: malformed signature encoding", ErrSignature)
	}
	if !VerifyEd25519(pub, msg, sig) {
		return ErrSignature
	}
	return nil
}
