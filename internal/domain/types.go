package domain

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

func (k X25519Private) Slice() []byte { return k[:] }

// Ed25519Public is a signing public key.
type Ed25519Public [32]byte

func (p Ed25519Public) Slice() []byte { return p[:] }

// Ed25519Private is a signing private key (ed25519.PrivateKey layout).
type Ed25519Private [64]byte

func (k Ed25519Private) Slice() []byte { return k[:] }

// ServerState records this vault's registration status with one relay.
type ServerState struct {
	Registered   bool   `json:"registered"`
	RegisteredAt string `json:"registered_at,omitempty"`
	Alias        string `json:"alias,omitempty"`
}

// Identity is the public face of a vault, persisted as identity.json in the
// vault directory. Private key material is stored separately and never
// appears here.
type Identity struct {
	VaultID             string                 `json:"vault_id"`
	Alias               string                 `json:"alias,omitempty"`
	SigningPublicKey    string                 `json:"signing_public_key"`
	EncryptionPublicKey string                 `json:"encryption_public_key"`
	CreatedAt           string                 `json:"created_at"`
	Servers             map[string]ServerState `json:"servers,omitempty"`
}

// PublicIdentity is the shareable subset of an identity.
type PublicIdentity struct {
	VaultID             string `json:"vault_id"`
	Alias               string `json:"alias,omitempty"`
	SigningPublicKey    string `json:"signing_public_key"`
	EncryptionPublicKey string `json:"encryption_public_key"`
}

// Contact is one entry in a vault's allow-list.
type Contact struct {
	VaultID             string `json:"vault_id"`
	Alias               string `json:"alias,omitempty"`
	SigningPublicKey    string `json:"signing_public_key,omitempty"`
	EncryptionPublicKey string `json:"encryption_public_key,omitempty"`
	Notes               string `json:"notes,omitempty"`
	AddedAt             string `json:"added_at"`
	UpdatedAt           string `json:"updated_at"`
}

// EncryptedPayload is the opaque hybrid-encryption blob that travels beside
// a redacted payload on the wire. All fields are URL-safe base64.
type EncryptedPayload struct {
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	Nonce              string `json:"nonce"`
	Ciphertext         string `json:"ciphertext"`
}
