package vault

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"vaultwire/internal/crypto"
	"vaultwire/internal/domain"
)

const (
	identityFile      = "identity.json"
	signingKeyFile    = "signing_key.bin"
	encryptionKeyFile = "encryption_key.bin"
	contactsFile      = "contacts.json"
	historyFile       = "history.log"
	quarantineFile    = "quarantine.log"
)

// ErrNotFound is returned when opening a vault directory that has never
// been initialized. It is distinct from I/O errors on an existing vault.
var ErrNotFound = errors.New("vault: not found")

// ErrExists is returned when creating a vault over an existing one.
var ErrExists = errors.New("vault: already exists")

// Vault is an agent's local identity and message store.
type Vault struct {
	dir string
	mu  sync.Mutex

	identity       domain.Identity
	signingPriv    domain.Ed25519Private
	encryptionPriv domain.X25519Private
}

// Create initializes a new vault at dir with fresh, independent signing and
// encryption key pairs. It fails with ErrExists if dir already holds a
// vault.
func Create(dir, alias string) (*Vault, error) {
	if _, err := os.Stat(filepath.Join(dir, identityFile)); err == nil {
		return nil, fmt.Errorf("%w at %s", ErrExists, dir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("vault: create %s: %w", dir, err)
	}

	signPriv, signPub, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("vault: generate signing key: %w", err)
	}
	encPriv, encPub, err := crypto.GenerateX25519()
	if err != nil {
		return nil, fmt.Errorf("vault: generate encryption key: %w", err)
	}

	identity := domain.Identity{
		VaultID:             NewVaultID(),
		Alias:               alias,
		SigningPublicKey:    crypto.SigningPublicKeyToB64(signPub),
		EncryptionPublicKey: crypto.EncryptionPublicKeyToB64(encPub),
		CreatedAt:           time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := os.WriteFile(filepath.Join(dir, signingKeyFile), signPriv.Slice(), 0o600); err != nil {
		return nil, fmt.Errorf("vault: write signing key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, encryptionKeyFile), encPriv.Slice(), 0o600); err != nil {
		return nil, fmt.Errorf("vault: write encryption key: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, identityFile), identity); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(dir, contactsFile), newContactsState()); err != nil {
		return nil, err
	}

	return &Vault{
		dir:            dir,
		identity:       identity,
		signingPriv:    signPriv,
		encryptionPriv: encPriv,
	}, nil
}

// Open loads an existing vault from dir. A directory that was never
// initialized fails with ErrNotFound.
func Open(dir string) (*Vault, error) {
	idPath := filepath.Join(dir, identityFile)
	if _, err := os.Stat(idPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("vault: stat %s: %w", idPath, err)
	}

	var identity domain.Identity
	if err := readJSON(idPath, &identity); err != nil {
		return nil, err
	}

	signBytes, err := os.ReadFile(filepath.Join(dir, signingKeyFile))
	if err != nil {
		return nil, fmt.Errorf("vault: read signing key: %w", err)
	}
	encBytes, err := os.ReadFile(filepath.Join(dir, encryptionKeyFile))
	if err != nil {
		return nil, fmt.Errorf("vault: read encryption key: %w", err)
	}

	v := &Vault{dir: dir, identity: identity}
	if len(signBytes) != len(v.signingPriv) {
		return nil, fmt.Errorf("vault: signing key must be %d bytes, got %d", len(v.signingPriv), len(signBytes))
	}
	if len(encBytes) != len(v.encryptionPriv) {
		return nil, fmt.Errorf("vault: encryption key must be %d bytes, got %d", len(v.encryptionPriv), len(encBytes))
	}
	copy(v.signingPriv[:], signBytes)
	copy(v.encryptionPriv[:], encBytes)
	return v, nil
}

// Dir returns the vault directory.
func (v *Vault) Dir() string { return v.dir }

// VaultID returns the agent's stable public identifier.
func (v *Vault) VaultID() string { return v.identity.VaultID }

// Alias returns the locally configured alias, if any.
func (v *Vault) Alias() string { return v.identity.Alias }

// Identity returns a copy of the persisted identity.
func (v *Vault) Identity() domain.Identity {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.identity
}

// PublicIdentity exports the shareable subset of the identity: no private
// material, no per-relay state.
func (v *Vault) PublicIdentity() domain.PublicIdentity {
	return domain.PublicIdentity{
		VaultID:             v.identity.VaultID,
		Alias:               v.identity.Alias,
		SigningPublicKey:    v.identity.SigningPublicKey,
		EncryptionPublicKey: v.identity.EncryptionPublicKey,
	}
}

// SigningPublicKey returns the vault's Ed25519 public key.
func (v *Vault) SigningPublicKey() (domain.Ed25519Public, error) {
	return crypto.SigningPublicKeyFromB64(v.identity.SigningPublicKey)
}

// Fingerprint returns a short display fingerprint of the signing public key.
func (v *Vault) Fingerprint() (string, error) {
	pub, err := v.SigningPublicKey()
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(pub.Slice()), nil
}

// Sign signs content with the vault's private signing key and returns the
// base64 signature over its canonical JSON form. The key itself is never
// exposed.
func (v *Vault) Sign(content any) (string, error) {
	return crypto.SignJSON(v.signingPriv, content)
}

// SignChallenge signs a relay registration challenge.
func (v *Vault) SignChallenge(challenge string) string {
	return crypto.SignChallenge(v.signingPriv, challenge)
}

// Decrypt decrypts a blob addressed to this vault into out.
func (v *Vault) Decrypt(enc domain.EncryptedPayload, out any) error {
	return crypto.DecryptJSON(v.encryptionPriv, enc, out)
}

// ServerState returns the registration state recorded for a relay URL.
func (v *Vault) ServerState(serverURL string) (domain.ServerState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	st, ok := v.identity.Servers[serverURL]
	return st, ok
}

// SetServerState records registration state for a relay URL and persists
// the identity file.
func (v *Vault) SetServerState(serverURL string, st domain.ServerState) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.identity.Servers == nil {
		v.identity.Servers = make(map[string]domain.ServerState)
	}
	v.identity.Servers[serverURL] = st
	return writeJSON(filepath.Join(v.dir, identityFile), v.identity)
}

// IsRegistered reports whether this vault completed registration with the
// relay at serverURL.
func (v *Vault) IsRegistered(serverURL string) bool {
	st, ok := v.ServerState(serverURL)
	return ok && st.Registered
}

// NewVaultID returns a fresh vault identifier: "vault_" followed by 32 hex
// characters.
func NewVaultID() string {
	u := uuid.New()
	return "vault_" + hex.EncodeToString(u[:])
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("vault: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("vault: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("vault: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
