package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"vaultwire/internal/crypto"
	"vaultwire/internal/domain"
	"vaultwire/internal/envelope"
)

func TestCanonicalJSON_Deterministic(t *testing.T) {
	a := map[string]any{
		"zebra": 1,
		"apple": map[string]any{"y": true, "x": []any{"b", "a"}},
	}
	b := map[string]any{
		"apple": map[string]any{"x": []any{"b", "a"}, "y": true},
		"zebra": 1,
	}
	ca, err := crypto.CanonicalJSON(a)
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	cb, err := crypto.CanonicalJSON(b)
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	if !bytes.Equal(ca, cb) {
		t.Fatalf("canonical forms differ:\n%s\n%s", ca, cb)
	}
	if want := `{"apple":{"x":["b","a"],"y":true},"zebra":1}`; string(ca) != want {
		t.Fatalf("canonical form = %s, want %s", ca, want)
	}
}

func TestCanonicalJSON_NoHTMLEscape(t *testing.T) {
	out, err := crypto.CanonicalJSON(map[string]any{"url": "a<b>&c"})
	if err != nil {
		t.Fatalf("CanonicalJSON: %v", err)
	}
	if want := `{"url":"a<b>&c"}`; string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestSignVerifyJSON(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	content := map[string]any{"intent": "ping", "n": 1}

	sig, err := crypto.SignJSON(priv, content)
	if err != nil {
		t.Fatalf("SignJSON: %v", err)
	}
	if err := crypto.VerifyJSON(pub, content, sig); err != nil {
		t.Fatalf("VerifyJSON: %v", err)
	}

	// Signing is deterministic over canonical content.
	sig2, err := crypto.SignJSON(priv, map[string]any{"n": 1, "intent": "ping"})
	if err != nil {
		t.Fatalf("SignJSON: %v", err)
	}
	if sig != sig2 {
		t.Fatal("signatures over reordered but equal content differ")
	}
}

func TestVerifyJSON_DetectsTamper(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	sig, err := crypto.SignJSON(priv, map[string]any{"amount": 10})
	if err != nil {
		t.Fatalf("SignJSON: %v", err)
	}

	err = crypto.VerifyJSON(pub, map[string]any{"amount": 1000}, sig)
	if !errors.Is(err, crypto.ErrSignature) {
		t.Fatalf("want ErrSignature on tampered content, got %v", err)
	}
	err = crypto.VerifyJSON(pub, map[string]any{"amount": 10}, "not base64!!!")
	if !errors.Is(err, crypto.ErrSignature) {
		t.Fatalf("want ErrSignature on malformed signature, got %v", err)
	}

	_, otherPub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	err = crypto.VerifyJSON(otherPub, map[string]any{"amount": 10}, sig)
	if !errors.Is(err, crypto.ErrSignature) {
		t.Fatalf("want ErrSignature under wrong key, got %v", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	plaintext := []byte("the payload body")

	enc, err := crypto.Encrypt(pub, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := crypto.Decrypt(priv, enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("plaintext mismatch: %q", got)
	}

	// A second encryption uses a fresh ephemeral key.
	enc2, err := crypto.Encrypt(pub, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if enc.EphemeralPublicKey == enc2.EphemeralPublicKey {
		t.Fatal("ephemeral key reused across encryptions")
	}
}

func TestDecrypt_WrongKeyOrTamper(t *testing.T) {
	_, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	otherPriv, _, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}

	enc, err := crypto.Encrypt(pub, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := crypto.Decrypt(otherPriv, enc); !errors.Is(err, crypto.ErrDecrypt) {
		t.Fatalf("want ErrDecrypt under wrong key, got %v", err)
	}

	tampered := enc
	ct, err := crypto.FromB64(enc.Ciphertext)
	if err != nil {
		t.Fatalf("FromB64: %v", err)
	}
	ct[0] ^= 0xff
	tampered.Ciphertext = crypto.B64(ct)
	if _, err := crypto.Decrypt(otherPriv, tampered); !errors.Is(err, crypto.ErrDecrypt) {
		t.Fatalf("want ErrDecrypt on tampered ciphertext, got %v", err)
	}

	tampered = enc
	tampered.Nonce = "short"
	if _, err := crypto.Decrypt(otherPriv, tampered); !errors.Is(err, crypto.ErrDecrypt) {
		t.Fatalf("want ErrDecrypt on bad nonce, got %v", err)
	}
}

func TestEncryptJSON_DecryptJSON(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	payload := envelope.Payload{Intent: "report", ContentType: "application/json", Body: map[string]any{"ok": true}}

	enc, err := crypto.EncryptJSON(pub, payload)
	if err != nil {
		t.Fatalf("EncryptJSON: %v", err)
	}
	var got envelope.Payload
	if err := crypto.DecryptJSON(priv, enc, &got); err != nil {
		t.Fatalf("DecryptJSON: %v", err)
	}
	if got.Intent != payload.Intent || got.ContentType != payload.ContentType {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

// A signature computed after payload redaction must verify against the
// redacted message and must not verify against the plaintext one.
func TestSignatureCoversRedactedPayload(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	msg, err := envelope.NewRequest("vault_a", "vault_b", "report", map[string]any{"secret": 42}, 0, "")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	plaintext := msg

	msg.Payload.Body = envelope.EncryptedBody()
	sig, err := crypto.SignJSON(priv, envelope.SignableContent(msg))
	if err != nil {
		t.Fatalf("SignJSON: %v", err)
	}

	if err := crypto.VerifyJSON(pub, envelope.SignableContent(msg), sig); err != nil {
		t.Fatalf("signature does not cover the redacted message: %v", err)
	}
	err = crypto.VerifyJSON(pub, envelope.SignableContent(plaintext), sig)
	if !errors.Is(err, crypto.ErrSignature) {
		t.Fatalf("signature unexpectedly covers the plaintext message: %v", err)
	}
}

func TestChallenge_SignVerify(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	ch, err := crypto.NewChallenge()
	if err != nil {
		t.Fatalf("NewChallenge: %v", err)
	}
	sig := crypto.SignChallenge(priv, ch)
	if err := crypto.VerifyChallenge(pub, ch, sig); err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if err := crypto.VerifyChallenge(pub, ch+"x", sig); !errors.Is(err, crypto.ErrSignature) {
		t.Fatalf("want ErrSignature on altered challenge, got %v", err)
	}
}

func TestPublicKeyEncoding(t *testing.T) {
	_, edPub, err := crypto.GenerateEd25519()
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	round, err := crypto.SigningPublicKeyFromB64(crypto.SigningPublicKeyToB64(edPub))
	if err != nil {
		t.Fatalf("SigningPublicKeyFromB64: %v", err)
	}
	if round != edPub {
		t.Fatal("signing key changed across encode/decode")
	}

	if _, err := crypto.SigningPublicKeyFromB64(crypto.B64([]byte("short"))); err == nil {
		t.Fatal("truncated signing key accepted")
	}
	var xPub domain.X25519Public
	if _, err := crypto.EncryptionPublicKeyFromB64(crypto.B64(xPub[:16])); err == nil {
		t.Fatal("truncated encryption key accepted")
	}
}
