package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"vaultwire/internal/domain"
)

const (
	aesKeySize   = 32 // AES-256
	aesNonceSize = 12 // 96-bit GCM nonce
)

// hkdfInfo binds derived keys to this protocol so a shared secret reused in
// another context cannot yield the same AES key.
var hkdfInfo = []byte("vaultwire-messaging-v1")

// deriveKey derives the AES key from an ECDH shared secret with
// HKDF-SHA256. The salt is a fixed 32 bytes of zeros; freshness comes from
// the ephemeral key pair generated per message.
func deriveKey(sharedSecret []byte) ([]byte, error) {
	salt := make([]byte, 32)
	r := hkdf.New(sha256.New, sharedSecret, salt, hkdfInfo)
	key := make([]byte, aesKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt encrypts plaintext for the holder of the matching X25519 private
// key: a fresh ephemeral key pair is generated, the shared secret computed
// via ECDH, an AES-256 key derived with HKDF-SHA256, and the plaintext
// sealed with AES-GCM. Only the recipient can recover the plaintext.
func Encrypt(recipient domain.X25519Public, plaintext []byte) (domain.EncryptedPayload, error) {
	ephPriv, ephPub, err := GenerateX25519()
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	shared, err := DH(ephPriv, recipient)
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	key, err := deriveKey(shared[:])
	if err != nil {
		return domain.EncryptedPayload{}, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	nonce := make([]byte, aesNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return domain.EncryptedPayload{}, err
	}
	ct := aead.Seal(nil, nonce, plaintext, nil)

	return domain.EncryptedPayload{
		EphemeralPublicKey: EncryptionPublicKeyToB64(ephPub),
		Nonce:              B64(nonce),
		Ciphertext:         B64(ct),
	}, nil
}

// Decrypt reverses Encrypt given the recipient's private key. Any failure
// (malformed encoding, wrong key, tampered ciphertext) surfaces as
// ErrDecrypt.
func Decrypt(priv domain.X25519Private, enc domain.EncryptedPayload) ([]byte, error) {
	ephPub, err := EncryptionPublicKeyFromB64(enc.EphemeralPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	nonce, err := FromB64(enc.Nonce)
	if err != nil || len(nonce) != aesNonceSize {
		return nil, fmt.Errorf("%w: bad nonce", ErrDecrypt)
	}
	ct, err := FromB64(enc.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ciphertext encoding", ErrDecrypt)
	}

	shared, err := DH(priv, ephPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	key, err := deriveKey(shared[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return pt, nil
}

// EncryptJSON encrypts the canonical JSON form of v for the recipient.
func EncryptJSON(recipient domain.X25519Public, v any) (domain.EncryptedPayload, error) {
	pt, err := CanonicalJSON(v)
	if err != nil {
		return domain.EncryptedPayload{}, err
	}
	return Encrypt(recipient, pt)
}

// DecryptJSON decrypts a blob produced by EncryptJSON into out.
func DecryptJSON(priv domain.X25519Private, enc domain.EncryptedPayload, out any) error {
	pt, err := Decrypt(priv, enc)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(pt, out); err != nil {
		return fmt.Errorf("%w: plaintext is not valid JSON: %v", ErrDecrypt, err)
	}
	return nil
}
