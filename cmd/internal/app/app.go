// Package app wires the passage server runtime: config, logging, the HTTP
// surface, and the background refresh-record sweep.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"passage/cmd/identity"
	authapi "passage/cmd/internal/auth/api"
	"passage/cmd/internal/auth/session"
	"passage/cmd/internal/auth/token"
	"passage/cmd/internal/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App owns the HTTP server and the auth subsystem's dependencies.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	sessions *session.Service
	auth     *authapi.Handler
}

// New constructs a fully wired App instance from config and logger.
//
// Without PASSAGE_DATABASE_URL the server still starts, but only the
// health and metrics endpoints are served: there is no user store to
// authenticate against, so the auth surface stays unregistered rather
// than half-working.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}

	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.auth_surface_off")
		return a, nil
	}

	pool, err := NewDBPool(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	a.dbPool = pool
	a.dbEnabled = true
	log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema)

	users, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return nil, err
	}

	tokCfg, err := token.LoadConfigFromEnv()
	if err != nil {
		pool.Close()
		return nil, err
	}
	issuer, err := token.NewIssuer(tokCfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sessStore, err := session.NewPostgresStore(pool, session.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return nil, err
	}
	sessions, err := session.NewService(issuer, sessStore)
	if err != nil {
		pool.Close()
		return nil, err
	}
	a.sessions = sessions

	auth, err := authapi.NewHandler(log, authapi.LoadConfigFromEnv(), users, sessions)
	if err != nil {
		pool.Close()
		return nil, err
	}
	a.auth = auth

	return a, nil
}

// Run starts the HTTP server and blocks until context cancellation or
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth)

	var handler http.Handler = mux
	handler = WithSecurityHeaders(handler)
	handler = WithCORS(handler, a.cfg, a.log)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.sweepExpired(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

// sweepExpired periodically deletes expired refresh records. Rotation
// rejects expired tokens on its own, so the sweep is garbage collection,
// not an enforcement mechanism; skipping a tick is harmless.
func (a *App) sweepExpired(ctx context.Context) {
	if a.sessions == nil || a.cfg.PurgeInterval <= 0 {
		return
	}

	t := time.NewTicker(a.cfg.PurgeInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := a.sessions.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				a.log.Error("refresh.purge.fail", "err", err)
				continue
			}
			if n > 0 {
				metrics.PurgedRecords.Add(float64(n))
				a.log.Info("refresh.purge", "removed", n)
			}
		}
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
