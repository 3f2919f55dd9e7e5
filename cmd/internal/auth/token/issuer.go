package token

import (
	"time"

	"passage/cmd/identity/ids"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the minimal identity envelope carried by both token kinds.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

// Issuer mints and verifies access and refresh JWTs with independent keys.
type Issuer struct {
	issuer    string
	clockSkew time.Duration

	accessTTL  time.Duration
	refreshTTL time.Duration

	accessSecret  []byte
	refreshSecret []byte
}

// NewIssuer builds an Issuer from cfg. Returns ErrConfig when the
// configuration is unusable.
func NewIssuer(cfg Config) (*Issuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Issuer{
		issuer:        cfg.Issuer,
		clockSkew:     cfg.ClockSkew,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		accessSecret:  cfg.AccessSecret,
		refreshSecret: cfg.RefreshSecret,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess mints a short-lived access token for userID.
func (i *Issuer) IssueAccess(userID string, now time.Time) (string, time.Time, error) {
	return i.sign(userID, now, i.accessTTL, i.accessSecret)
}

// IssueRefresh mints a refresh token for userID using the refresh key.
func (i *Issuer) IssueRefresh(userID string, now time.Time) (string, time.Time, error) {
	return i.sign(userID, now, i.refreshTTL, i.refreshSecret)
}

// VerifyAccess verifies an access token and returns its claims.
func (i *Issuer) VerifyAccess(token string, now time.Time) (Claims, error) {
	return i.verify(token, now, i.accessSecret)
}

// VerifyRefresh verifies a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(token string, now time.Time) (Claims, error) {
	return i.verify(token, now, i.refreshSecret)
}

func (i *Issuer) sign(userID string, now time.Time, ttl time.Duration, secret []byte) (string, time.Time, error) {
	exp := now.Add(ttl)

	// jti makes every minted token unique even within one second;
	// without it two same-user refresh tokens could share a digest.
	jti, err := ids.NewULID(now)
	if err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   userID,
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) verify(token string, now time.Time, secret []byte) (Claims, error) {
	// Fresh parser per call: validation is pinned to the caller's "now"
	// so verification results do not depend on wall-clock drift mid-test.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(i.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims jwt.RegisteredClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		UserID: claims.Subject,
		Issuer: claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
