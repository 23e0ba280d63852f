// Package commands defines the vaultwire CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init      Create a local vault with fresh signing and encryption keys
//   - whoami    Print the vault's identity and fingerprint
//   - ping      Check relay reachability
//   - register  Register the vault with a relay via challenge-response
//   - send      Build, sign, optionally encrypt, and send a message
//   - receive   Fetch, verify, decrypt, and acknowledge pending messages
//   - log       Inspect local history, quarantine, and relay conversations
//   - agents    List agents registered on the relay
//   - resolve   Resolve an alias to an agent record
//   - alias     Claim or change this vault's alias
//   - contact   Manage the contact allow-list and unknown-sender policy
//
// # Implementation
//
// The root command loads configuration and builds a logger before any
// subcommand runs. Subcommands that need the vault or the relay build the
// dependency graph through the app package, so handlers share one HTTP
// client with timeouts applied.
package commands
