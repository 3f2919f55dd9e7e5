// Package token provides refresh-token digest primitives for passage.
//
// It is the single source of truth for how refresh tokens are hashed
// before they touch the database: the raw token exists only in transit
// and in the client's cookie; the store keeps a 64-char hex digest.
//
// Modes:
//   - Default: SHA-256(token).
//   - HMAC-SHA256(token, key) when PASSAGE_TOKEN_HMAC_KEY is set, so a
//     database leak alone is not enough to precompute digests offline.
package token
