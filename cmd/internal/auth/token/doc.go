// Package token mints and verifies the two JWT kinds passage uses.
//
// Access and refresh tokens carry the same minimal claims (sub, iat, exp,
// iss) but are signed with independent HS256 keys and independent TTLs:
// compromise of the access-signing key cannot forge long-lived refresh
// tokens, and vice versa. Verification is purely computational, so the
// request-path gate never touches the database.
package token
