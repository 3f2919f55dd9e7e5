package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior and cookie transport defaults.
type Config struct {
	MaxBodyBytes      int64
	MinPasswordLength int

	RefreshCookieName string
	CookiePath        string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    http.SameSite
}

// DefaultConfig returns development-suitable defaults.
// CookieSecure defaults to false so plain-HTTP dev setups work; production
// deployments must set PASSAGE_COOKIE_SECURE=true.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes:      1 << 20, // 1 MiB
		MinPasswordLength: 8,
		RefreshCookieName: "refreshToken",
		CookiePath:        "/",
		CookieSameSite:    http.SameSiteStrictMode,
	}
}

// LoadConfigFromEnv loads auth API config from environment variables.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.MaxBodyBytes = envInt64("PASSAGE_AUTH_MAX_BODY_BYTES", cfg.MaxBodyBytes)
	cfg.RefreshCookieName = envString("PASSAGE_REFRESH_COOKIE_NAME", cfg.RefreshCookieName)
	cfg.CookiePath = envString("PASSAGE_COOKIE_PATH", cfg.CookiePath)
	cfg.CookieDomain = envString("PASSAGE_COOKIE_DOMAIN", cfg.CookieDomain)
	cfg.CookieSecure = envBool("PASSAGE_COOKIE_SECURE", cfg.CookieSecure)

	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
