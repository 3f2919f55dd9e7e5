package token

import (
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AccessSecret = []byte("access-secret-for-tests-0123456789")
	cfg.RefreshSecret = []byte("refresh-secret-for-tests-0123456789")
	cfg.ClockSkew = 0
	return cfg
}

func mustIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func TestIssueAndVerifyAccessRoundTrip(t *testing.T) {
	iss := mustIssuer(t)
	now := time.Now().UTC()

	tok, exp, err := iss.IssueAccess("01HZZZZZZZZZZZZZZZZZZZZZZZ", now)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !exp.After(now) {
		t.Fatalf("expected exp after now")
	}

	claims, err := iss.VerifyAccess(tok, now.Add(time.Second))
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != "01HZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Fatalf("unexpected subject %q", claims.UserID)
	}
	if claims.Issuer != "passage" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	iss := mustIssuer(t)
	now := time.Now().UTC()

	tok, _, err := iss.IssueAccess("user-1", now)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	if _, err := iss.VerifyAccess(tok, now.Add(16*time.Minute)); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after TTL, got %v", err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	iss := mustIssuer(t)
	now := time.Now().UTC()

	access, _, err := iss.IssueAccess("user-1", now)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, _, err := iss.IssueRefresh("user-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := iss.VerifyRefresh(access, now); err != ErrInvalidToken {
		t.Fatalf("refresh key must not verify access tokens, got %v", err)
	}
	if _, err := iss.VerifyAccess(refresh, now); err != ErrInvalidToken {
		t.Fatalf("access key must not verify refresh tokens, got %v", err)
	}
}

func TestVerifyRejectsGarbageAndForeignTokens(t *testing.T) {
	iss := mustIssuer(t)
	now := time.Now().UTC()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := iss.VerifyAccess(tok, now); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}

	// Token signed by an issuer with different keys.
	otherCfg := testConfig()
	otherCfg.AccessSecret = []byte("completely-different-access-secret")
	other, err := NewIssuer(otherCfg)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	foreign, _, err := other.IssueAccess("user-1", now)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := iss.VerifyAccess(foreign, now); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	iss := mustIssuer(t)
	now := time.Now().UTC()

	refresh, _, err := iss.IssueRefresh("user-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	// Well past the access TTL, well within the refresh TTL.
	if _, err := iss.VerifyRefresh(refresh, now.Add(24*time.Hour)); err != nil {
		t.Fatalf("VerifyRefresh at +24h: %v", err)
	}
	if _, err := iss.VerifyRefresh(refresh, now.Add(8*24*time.Hour)); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken at +8d, got %v", err)
	}
}
