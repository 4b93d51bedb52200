/*
Package auth provides identity and host-key utilities.

# Host Keys

Host keys use HMAC-SHA256 to create deterministic, verifiable keys:

	hostKey := auth.GenerateHostKey(pollID, salt)
	err := auth.ValidateHostKey(pollID, hostKey, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, the same poll ID and salt always produce the same key,
so host-only mutations (start, open, close, next, previous, end,
restart, edit, delete) are authorized without storing the key.

# Poll Codes

Poll codes are short random identifiers drawn from an unambiguous
alphabet so they can be read off a presenter screen:

	code, err := auth.GeneratePollCode(6)

# Session Identifiers

Participants are identified by an opaque session id string. How a real
client obtains one is outside this server's concern; it only needs the
id to be stable per participant. NewSessionID and NewOwnerID mint
UUID-based identities for headless callers such as the load harness.
*/
package auth
