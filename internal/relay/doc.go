// Package relay provides the HTTP implementation of domain.RelayClient.
//
// The relay is a store-and-forward service between vaults: it accepts
// signed, optionally encrypted envelopes, threads them into conversations
// keyed by the unordered pair of participants, enforces size and TTL
// limits server-side, and exposes retrieval and alias-resolution endpoints.
//
// Supported operations:
//   - Challenge-response registration of a vault's public keys.
//   - Sending a signed envelope with an optional encrypted payload blob.
//   - Fetching and acknowledging pending messages.
//   - Listing agents and resolving aliases to public identity records.
//   - Reading conversation logs and the agent's conversation index.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Relay rejections decode into *Error carrying the relay's
// machine-readable code unmodified; transport failures are wrapped
// separately so callers can tell the two apart with errors.As. The client
// never retries; resend policy belongs to the caller.
package relay
