package authapi

import (
	"log/slog"
	"net/http"
	"time"

	"passage/cmd/identity"
	"passage/cmd/internal/auth/session"
	"passage/cmd/internal/metrics"
	"passage/cmd/security/password"
)

// Handler serves the authentication endpoints.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	users    identity.Store
	sessions *session.Service

	// dummyHash is verified against on unknown-email logins so the
	// response time does not reveal whether the email is registered.
	dummyHash string

	now func() time.Time
}

// NewHandler constructs a Handler. The dummy credential hash is computed
// once up front with the same parameters real hashes use.
func NewHandler(log *slog.Logger, cfg Config, users identity.Store, sessions *session.Service) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	dummy, err := password.Hash("passage.dummy.credential", password.DefaultParams())
	if err != nil {
		return nil, err
	}
	return &Handler{
		log:       log.With(slog.String("component", "authapi")),
		cfg:       cfg,
		users:     users,
		sessions:  sessions,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Register wires the auth endpoints onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /refresh", h.handleRefresh)
	mux.Handle("GET /me", h.RequireAuth(http.HandlerFunc(h.handleMe)))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	email := identity.NormalizeEmail(req.Email)
	if !identity.ValidEmail(email) {
		metrics.Registrations.WithLabelValues(metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "a valid email is required")
		return
	}
	if len(req.Password) < h.cfg.MinPasswordLength {
		metrics.Registrations.WithLabelValues(metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "password is too short")
		return
	}

	u, err := h.users.CreateUser(r.Context(), identity.CreateUserInput{
		Email:    email,
		Password: req.Password,
		Now:      h.now().UTC(),
	})
	if err != nil {
		if identity.IsConflict(err) {
			metrics.Registrations.WithLabelValues(metrics.OutcomeRejected).Inc()
			writeError(w, http.StatusConflict, "email_taken", "email is already registered")
			return
		}
		metrics.Registrations.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.ErrorContext(r.Context(), "register failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return
	}

	metrics.Registrations.WithLabelValues(metrics.OutcomeOK).Inc()
	h.log.InfoContext(r.Context(), "user registered", slog.String("user_id", u.ID))
	writeJSON(w, http.StatusCreated, registerResponse{User: userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	email := identity.NormalizeEmail(req.Email)
	if !identity.ValidEmail(email) || req.Password == "" {
		metrics.Logins.WithLabelValues(metrics.OutcomeRejected).Inc()
		h.rejectCredentials(w)
		return
	}

	u, err := h.users.GetUserAuthByEmail(r.Context(), email)
	if err != nil {
		if identity.IsNotFound(err) {
			// Burn the same hashing work a real lookup would so the
			// response time stays flat either way.
			_, _ = password.Verify(req.Password, h.dummyHash)
			metrics.Logins.WithLabelValues(metrics.OutcomeRejected).Inc()
			h.rejectCredentials(w)
			return
		}
		metrics.Logins.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.ErrorContext(r.Context(), "login lookup failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return
	}

	ok, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		metrics.Logins.WithLabelValues(metrics.OutcomeRejected).Inc()
		h.rejectCredentials(w)
		return
	}

	issued, err := h.sessions.Issue(r.Context(), h.now().UTC(), u.ID)
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.ErrorContext(r.Context(), "session issue failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return
	}

	metrics.Logins.WithLabelValues(metrics.OutcomeOK).Inc()
	h.log.InfoContext(r.Context(), "user logged in", slog.String("user_id", u.ID))
	h.setRefreshCookie(w, issued.RefreshToken, h.sessions.RefreshTTL())
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: issued.AccessToken,
		User: userResponse{
			ID:        u.ID,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		},
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	presented, ok := h.refreshTokenFromCookie(r)
	if !ok {
		metrics.Rotations.WithLabelValues(metrics.OutcomeRejected).Inc()
		h.rejectRefresh(w)
		return
	}

	issued, err := h.sessions.Rotate(r.Context(), h.now().UTC(), presented)
	if err != nil {
		if session.IsRotationFailure(err) {
			// One body for every rejection cause. Telling a forged token
			// apart from a replayed one would leak protocol state.
			metrics.Rotations.WithLabelValues(metrics.OutcomeRejected).Inc()
			h.rejectRefresh(w)
			return
		}
		metrics.Rotations.WithLabelValues(metrics.OutcomeError).Inc()
		h.log.ErrorContext(r.Context(), "rotation failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return
	}

	metrics.Rotations.WithLabelValues(metrics.OutcomeOK).Inc()
	h.setRefreshCookie(w, issued.RefreshToken, h.sessions.RefreshTTL())
	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: issued.AccessToken})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	u, err := h.users.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		if identity.IsNotFound(err) {
			// Token is valid but the account no longer exists.
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.ErrorContext(r.Context(), "user lookup failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}})
}

// RequireAuth verifies the bearer access token and installs the caller's
// identity on the request context. It never consults the session store:
// access tokens are self-contained until they expire.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		claims, err := h.sessions.VerifyAccess(tok, h.now().UTC())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Identity{UserID: claims.UserID})))
	})
}

func (h *Handler) rejectCredentials(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
}

func (h *Handler) rejectRefresh(w http.ResponseWriter) {
	h.clearRefreshCookie(w)
	writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "invalid refresh token")
}
