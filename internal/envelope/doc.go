// Package envelope defines the message schema shared by all agents: a fixed
// envelope section for routing and timing, and a payload section carrying the
// application intent and body. It provides a builder for assembling valid
// messages, a validator for messages arriving off the wire, expiry and size
// checks, and extraction of the exact content covered by a signature.
package envelope
