package app

import (
	"errors"

	"passage/cmd/security/token"
)

// ValidateSecurityConfig enforces the startup security policy.
//
// Fail-fast on purpose: a deployment that asked for HMAC-based token
// hashing must never come up silently using plain SHA-256. The check
// goes through the same module that performs the hashing so policy and
// behavior cannot drift apart.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireTokenHMAC {
		return nil
	}

	// 32 bytes minimum for an HMAC-SHA256 secret, measured as raw bytes.
	if _, err := token.HMACKeyFromEnv(32); err != nil {
		switch {
		case errors.Is(err, token.ErrHMACKeyMissing):
			return errors.New("security policy: PASSAGE_REQUIRE_TOKEN_HMAC=true but PASSAGE_TOKEN_HMAC_KEY is missing")
		case errors.Is(err, token.ErrHMACKeyTooShort):
			return errors.New("security policy: PASSAGE_REQUIRE_TOKEN_HMAC=true but PASSAGE_TOKEN_HMAC_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}

	if !token.HMACEnabled() {
		return errors.New("security policy: PASSAGE_REQUIRE_TOKEN_HMAC=true but token hasher is not in HMAC mode")
	}

	return nil
}
