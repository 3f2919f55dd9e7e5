// Package identity implements passage's user-record foundation.
//
// It owns the users table: registration-time creation, normalized email
// lookup for login, and lookup by ID for authenticated requests. Password
// hashing is delegated to cmd/security/password.
//
// This package is intentionally dependency-light and security-first.
package identity
