package token

import "errors"

var (
	// ErrInvalidToken is returned when a token fails verification for any
	// reason: bad signature, wrong key, malformed input, wrong issuer, or
	// expiry. Callers must not be able to tell these apart.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid issuer configuration.
	ErrConfig = errors.New("invalid config")
)
