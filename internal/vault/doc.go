// Package vault owns an agent's identity: its signing and encryption key
// pairs, contact allow-list, and the local append-only history and
// quarantine logs. Private keys never leave the package; callers sign and
// decrypt through the Vault's methods.
//
// On disk a vault is one directory per identity:
//
//	identity.json       public identity and per-relay registration state
//	signing_key.bin     Ed25519 private key, mode 0600
//	encryption_key.bin  X25519 private key, mode 0600
//	contacts.json       allow-list and unknown-sender policy
//	history.log         append-only JSONL of sent/received messages
//	quarantine.log      append-only JSONL of rejected messages
//
// The logs are written with an exclusive file lock and O_APPEND so multiple
// processes sharing a vault directory can append without interleaving;
// readers take lock-free snapshot reads since entries are never mutated.
package vault
