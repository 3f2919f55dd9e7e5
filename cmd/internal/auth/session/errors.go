package session

import "errors"

var (
	// ErrInvalidSignature is returned when the presented refresh token is
	// malformed, carries a bad signature, or its self-contained expiry has
	// already passed. This class is rejected without any store access.
	ErrInvalidSignature = errors.New("invalid refresh token signature")

	// ErrUnknownToken is returned when no record backs the presented
	// token's digest. This also covers replay of an already-rotated token
	// and losing a concurrent rotation race.
	ErrUnknownToken = errors.New("unknown refresh token")

	// ErrExpired is returned when the backing record had already passed
	// its expiration instant. The record is purged as a side effect.
	ErrExpired = errors.New("refresh token expired")

	// ErrConfig is returned for invalid service configuration.
	ErrConfig = errors.New("invalid config")
)

// IsRotationFailure reports whether err is one of the three rotation
// rejections. Callers surface all of them as one uniform invalid-token
// outcome; which check failed must never leak to the client.
func IsRotationFailure(err error) bool {
	return errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrUnknownToken) ||
		errors.Is(err, ErrExpired)
}
