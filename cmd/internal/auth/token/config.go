package token

import (
	"os"
	"strings"
	"time"
)

// Config defines runtime configuration for the token issuer.
//
// Two independent signing keys and two independent TTLs. Both keys are
// required; there is no shared-secret fallback.
type Config struct {
	// Issuer is the value set in the "iss" claim of both token kinds.
	Issuer string

	// AccessTTL defines the lifetime of access tokens.
	AccessTTL time.Duration

	// RefreshTTL defines the lifetime of refresh tokens and of the
	// server-side record backing them.
	RefreshTTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	ClockSkew time.Duration

	// AccessSecret signs and verifies access tokens (HS256).
	AccessSecret []byte

	// RefreshSecret signs and verifies refresh tokens (HS256).
	RefreshSecret []byte
}

// DefaultConfig returns defaults suitable for development.
// Secrets must still be provided via environment variables.
func DefaultConfig() Config {
	return Config{
		Issuer:     "passage",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		ClockSkew:  30 * time.Second,
	}
}

// LoadConfigFromEnv loads issuer configuration from environment variables.
//
// Required:
//   - PASSAGE_ACCESS_TOKEN_SECRET
//   - PASSAGE_REFRESH_TOKEN_SECRET (must differ from the access secret)
//
// Optional (durations must be valid Go duration strings):
//   - PASSAGE_AUTH_ISSUER
//   - PASSAGE_ACCESS_TTL (default 15m)
//   - PASSAGE_REFRESH_TTL (default 168h)
//   - PASSAGE_AUTH_CLOCK_SKEW (default 30s)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("PASSAGE_AUTH_ISSUER")); v != "" {
		cfg.Issuer = v
	}

	if v := strings.TrimSpace(os.Getenv("PASSAGE_ACCESS_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("PASSAGE_REFRESH_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("PASSAGE_AUTH_CLOCK_SKEW")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	cfg.AccessSecret = []byte(strings.TrimSpace(os.Getenv("PASSAGE_ACCESS_TOKEN_SECRET")))
	cfg.RefreshSecret = []byte(strings.TrimSpace(os.Getenv("PASSAGE_REFRESH_TOKEN_SECRET")))

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if len(c.AccessSecret) == 0 || len(c.RefreshSecret) == 0 {
		return ErrConfig
	}
	// Same key for both kinds collapses the blast-radius isolation.
	if string(c.AccessSecret) == string(c.RefreshSecret) {
		return ErrConfig
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return ErrConfig
	}
	if c.AccessTTL > c.RefreshTTL {
		return ErrConfig
	}
	return nil
}
