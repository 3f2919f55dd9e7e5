package identity

import (
	"regexp"
	"strings"
)

// Mirrors the registration-time shape check: one @, no whitespace, a dot in
// the domain part. Deliverability is the mail system's problem, not ours.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail performs case-insensitive canonicalization.
// The normalized form is the uniqueness key and the login lookup key.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail reports whether s looks like an email address after trimming.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}
