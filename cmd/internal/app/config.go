package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBSchema    string

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Interval of the background sweep that removes expired refresh records.
	// Zero disables the sweep.
	PurgeInterval time.Duration

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// Security policy:
	// If true, PASSAGE_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and
	// refresh-token hashing must be HMAC-based.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("PASSAGE_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("PASSAGE_LOG_LEVEL", "info"),
		LogFormat: EnvString("PASSAGE_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("PASSAGE_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PASSAGE_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PASSAGE_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("PASSAGE_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PASSAGE_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("PASSAGE_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("PASSAGE_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("PASSAGE_DB_MIN_CONNS", 0),
		DBSchema:    EnvString("PASSAGE_DB_SCHEMA", "public"),

		ReadinessRequireDB: EnvBool("PASSAGE_READINESS_REQUIRE_DB", false),

		PurgeInterval: EnvDuration("PASSAGE_REFRESH_PURGE_INTERVAL", 15*time.Minute),

		CORSAllowedOrigins:   EnvStringSlice("PASSAGE_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("PASSAGE_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("PASSAGE_CORS_MAX_AGE_SECONDS", 600),

		RequireTokenHMAC: EnvBool("PASSAGE_REQUIRE_TOKEN_HMAC", false),
	}
}
