package vault

import (
	"path/filepath"
	"time"

	"vaultwire/internal/domain"
)

// contactsState is the persisted shape of contacts.json.
type contactsState struct {
	Contacts          map[string]domain.Contact `json:"contacts"`
	QuarantineUnknown bool                      `json:"quarantine_unknown"`
}

func newContactsState() contactsState {
	return contactsState{
		Contacts:          make(map[string]domain.Contact),
		QuarantineUnknown: true,
	}
}

func (v *Vault) loadContacts() (contactsState, error) {
	path := filepath.Join(v.dir, contactsFile)
	state := newContactsState()
	if err := readJSON(path, &state); err != nil {
		return newContactsState(), err
	}
	if state.Contacts == nil {
		state.Contacts = make(map[string]domain.Contact)
	}
	return state, nil
}

func (v *Vault) saveContacts(state contactsState) error {
	return writeJSON(filepath.Join(v.dir, contactsFile), state)
}

// AddContact adds or updates an allow-list entry. Zero-valued fields of the
// update leave the stored values untouched.
func (v *Vault) AddContact(update domain.Contact) (domain.Contact, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.loadContacts()
	if err != nil {
		return domain.Contact{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	contact, ok := state.Contacts[update.VaultID]
	if !ok {
		contact = domain.Contact{VaultID: update.VaultID, AddedAt: now}
	}
	contact.UpdatedAt = now
	if update.Alias != "" {
		contact.Alias = update.Alias
	}
	if update.SigningPublicKey != "" {
		contact.SigningPublicKey = update.SigningPublicKey
	}
	if update.EncryptionPublicKey != "" {
		contact.EncryptionPublicKey = update.EncryptionPublicKey
	}
	if update.Notes != "" {
		contact.Notes = update.Notes
	}

	state.Contacts[update.VaultID] = contact
	if err := v.saveContacts(state); err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

// RemoveContact deletes an allow-list entry. Returns false when the vault id
// was not present.
func (v *Vault) RemoveContact(vaultID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.loadContacts()
	if err != nil {
		return false, err
	}
	if _, ok := state.Contacts[vaultID]; !ok {
		return false, nil
	}
	delete(state.Contacts, vaultID)
	return true, v.saveContacts(state)
}

// Contact returns the stored entry for vaultID, if any.
func (v *Vault) Contact(vaultID string) (domain.Contact, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.loadContacts()
	if err != nil {
		return domain.Contact{}, false, err
	}
	c, ok := state.Contacts[vaultID]
	return c, ok, nil
}

// IsKnownContact reports whether vaultID is on the allow-list.
func (v *Vault) IsKnownContact(vaultID string) bool {
	_, ok, err := v.Contact(vaultID)
	return err == nil && ok
}

// SetQuarantineUnknown sets whether messages from senders outside the
// allow-list go to quarantine instead of history.
func (v *Vault) SetQuarantineUnknown(enabled bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.loadContacts()
	if err != nil {
		return err
	}
	state.QuarantineUnknown = enabled
	return v.saveContacts(state)
}

// ShouldQuarantine reports whether a message from sender should be
// quarantined under the current policy.
func (v *Vault) ShouldQuarantine(sender string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	state, err := v.loadContacts()
	if err != nil {
		// Fail closed: an unreadable policy quarantines unknown senders.
		return true
	}
	if !state.QuarantineUnknown {
		return false
	}
	_, known := state.Contacts[sender]
	return !known
}
