package session

import (
	"context"
	"strings"
	"time"

	"passage/cmd/identity/ids"
	"passage/cmd/internal/auth/token"
	sectoken "passage/cmd/security/token"
)

// Service implements the refresh-token protocol: issuance on login and
// consume-on-use rotation.
type Service struct {
	issuer *token.Issuer
	store  Store
}

// Issued is the result of issuing or rotating a token pair.
type Issued struct {
	UserID       string
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// NewService constructs a Service from an issuer and a record store.
func NewService(issuer *token.Issuer, store Store) (*Service, error) {
	if issuer == nil || store == nil {
		return nil, ErrConfig
	}
	return &Service{issuer: issuer, store: store}, nil
}

// Issue mints a fresh access/refresh pair for userID and persists the
// refresh token's digest. This is the login path.
func (s *Service) Issue(ctx context.Context, now time.Time, userID string) (Issued, error) {
	accessToken, accessExp, err := s.issuer.IssueAccess(userID, now)
	if err != nil {
		return Issued{}, err
	}

	refreshToken, refreshExp, err := s.issuer.IssueRefresh(userID, now)
	if err != nil {
		return Issued{}, err
	}

	if err := s.persistRefresh(ctx, now, userID, refreshToken, refreshExp); err != nil {
		return Issued{}, err
	}

	return Issued{
		UserID:       userID,
		AccessToken:  accessToken,
		AccessExp:    accessExp,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
	}, nil
}

// Rotate consumes the presented refresh token and mints a successor pair.
//
// Protocol, in order:
//  1. Signature/expiry verification of the self-contained token. Failures
//     here are rejected without touching the store.
//  2. Atomic consume of the backing record by digest. Missing record covers
//     never-issued tokens, replay of a rotated-away token, and losing a
//     concurrent race: exactly one of two racing callers sees the record.
//  3. A consumed-but-expired record is rejected; the consume already served
//     as its purge.
//  4. Otherwise a new pair is issued for the record's owner and the new
//     digest is persisted.
//
// The presented token is invalidated before success is reported, never
// after: a crash between consume and insert costs the client a re-login,
// not the server a replayable token.
func (s *Service) Rotate(ctx context.Context, now time.Time, presented string) (Issued, error) {
	presented = strings.TrimSpace(presented)
	// Sanity bounds to avoid hashing pathological inputs.
	if presented == "" || len(presented) > 4096 {
		return Issued{}, ErrInvalidSignature
	}

	claims, err := s.issuer.VerifyRefresh(presented, now)
	if err != nil {
		return Issued{}, ErrInvalidSignature
	}

	digest := sectoken.HashRefreshTokenHex(presented)

	rec, found, err := s.store.ConsumeByHash(ctx, digest)
	if err != nil {
		return Issued{}, err
	}
	if !found {
		return Issued{}, ErrUnknownToken
	}

	if !rec.ExpiresAt.After(now) {
		return Issued{}, ErrExpired
	}

	// The record, not the token claims, is authoritative for ownership;
	// a mismatch means the digest collided with someone else's record.
	if rec.UserID != claims.UserID {
		return Issued{}, ErrUnknownToken
	}

	return s.Issue(ctx, now, rec.UserID)
}

// PurgeExpired removes dead records. Safe to run concurrently with
// rotation; an expired record consumed by Rotate first is simply absent.
func (s *Service) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.store.DeleteExpired(ctx, now)
}

// RevokeAll removes every outstanding refresh record for userID.
// Already-issued access tokens stay valid until their short TTL runs out.
func (s *Service) RevokeAll(ctx context.Context, userID string) (int64, error) {
	return s.store.DeleteByUser(ctx, userID)
}

// RefreshTTL returns the configured refresh-token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.issuer.RefreshTTL() }

// VerifyAccess verifies an access token; used by the request gate.
func (s *Service) VerifyAccess(tok string, now time.Time) (token.Claims, error) {
	return s.issuer.VerifyAccess(tok, now)
}

func (s *Service) persistRefresh(ctx context.Context, now time.Time, userID, refreshToken string, refreshExp time.Time) error {
	id, err := ids.NewULID(now)
	if err != nil {
		return err
	}

	return s.store.Insert(ctx, Record{
		ID:        id,
		UserID:    userID,
		TokenHash: sectoken.HashRefreshTokenHex(refreshToken),
		ExpiresAt: refreshExp,
		CreatedAt: now,
	})
}
