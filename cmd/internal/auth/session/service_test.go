package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"passage/cmd/internal/auth/token"
	sectoken "passage/cmd/security/token"
)

func testIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	cfg := token.DefaultConfig()
	cfg.AccessSecret = []byte("access-secret-for-tests-0123456789")
	cfg.RefreshSecret = []byte("refresh-secret-for-tests-0123456789")
	cfg.ClockSkew = 0
	iss, err := token.NewIssuer(cfg)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func testService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc, err := NewService(testIssuer(t), store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestIssuePersistsDigestNotToken(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.AccessToken == "" || issued.RefreshToken == "" {
		t.Fatalf("expected both tokens")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Len())
	}

	digest := sectoken.HashRefreshTokenHex(issued.RefreshToken)
	rec, ok := store.Get(digest)
	if !ok {
		t.Fatalf("record not keyed by digest")
	}
	if rec.TokenHash == issued.RefreshToken {
		t.Fatalf("raw refresh token must never be persisted")
	}
	if rec.UserID != "user-1" {
		t.Fatalf("unexpected owner %q", rec.UserID)
	}
	if !rec.ExpiresAt.Equal(issued.RefreshExp) {
		t.Fatalf("record expiry %v != token expiry %v", rec.ExpiresAt, issued.RefreshExp)
	}
}

func TestRotateSingleUse(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	second, err := svc.Rotate(ctx, now.Add(time.Minute), first.RefreshToken)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if second.UserID != "user-1" {
		t.Fatalf("rotation changed owner: %q", second.UserID)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("rotation must mint a new refresh token")
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one live record after rotation, got %d", store.Len())
	}

	// Replay of the consumed token.
	_, err = svc.Rotate(ctx, now.Add(2*time.Minute), first.RefreshToken)
	if err != ErrUnknownToken {
		t.Fatalf("expected ErrUnknownToken on replay, got %v", err)
	}
	if !IsRotationFailure(err) {
		t.Fatalf("replay must be a rotation failure")
	}

	// The successor still works.
	if _, err := svc.Rotate(ctx, now.Add(3*time.Minute), second.RefreshToken); err != nil {
		t.Fatalf("successor rotation: %v", err)
	}
}

func TestRotateRejectsBadSignatureWithoutStoreAccess(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Rotate(ctx, now, tok); err != ErrInvalidSignature {
			t.Fatalf("token %q: expected ErrInvalidSignature, got %v", tok, err)
		}
	}

	// An access token presented as a refresh token is a signature failure:
	// the refresh key does not verify it.
	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Rotate(ctx, now, issued.AccessToken); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature for access token, got %v", err)
	}
}

func TestRotateUnknownToken(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// A well-signed refresh token with no backing record: same issuer keys,
	// but never persisted (e.g. the record was revoked).
	iss := testIssuer(t)
	stray, _, err := iss.IssueRefresh("user-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := svc.Rotate(ctx, now, stray); err != ErrUnknownToken {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestRotateExpiredRecordIsPurged(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// A record whose stored expiry already passed while the JWT itself is
	// still within its self-contained lifetime.
	iss := testIssuer(t)
	refresh, _, err := iss.IssueRefresh("user-1", now)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	digest := sectoken.HashRefreshTokenHex(refresh)
	store.Put(Record{
		ID:        "rec-1",
		UserID:    "user-1",
		TokenHash: digest,
		ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-8 * 24 * time.Hour),
	})

	_, err = svc.Rotate(ctx, now, refresh)
	if err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if _, ok := store.Get(digest); ok {
		t.Fatalf("expired record must be purged on discovery")
	}

	// Rejecting it again: record absent, uniform failure.
	_, err = svc.Rotate(ctx, now, refresh)
	if err != ErrUnknownToken {
		t.Fatalf("expected ErrUnknownToken on second attempt, got %v", err)
	}
	if !IsRotationFailure(err) {
		t.Fatalf("second rejection must still be a rotation failure")
	}
}

func TestRotateRaceExactlyOneWinner(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	issued, err := svc.Issue(ctx, now, "user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	const racers = 8
	var wg sync.WaitGroup
	results := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Rotate(ctx, now.Add(time.Minute), issued.RefreshToken)
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range results {
		switch {
		case err == nil:
			wins++
		case err == ErrUnknownToken:
		default:
			t.Fatalf("racer %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if store.Len() != 1 {
		t.Fatalf("expected exactly one live successor record, got %d", store.Len())
	}
}

func TestPurgeExpired(t *testing.T) {
	svc, store := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store.Put(Record{ID: "dead-1", UserID: "u1", TokenHash: "h1", ExpiresAt: now.Add(-time.Minute)})
	store.Put(Record{ID: "dead-2", UserID: "u2", TokenHash: "h2", ExpiresAt: now})
	store.Put(Record{ID: "live-1", UserID: "u1", TokenHash: "h3", ExpiresAt: now.Add(time.Hour)})

	n, err := svc.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged, got %d", n)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 live record, got %d", store.Len())
	}
}

func TestRevokeAll(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := svc.Issue(ctx, now, "user-1"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Issue(ctx, now.Add(time.Second), "user-1"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other, err := svc.Issue(ctx, now, "user-2")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	n, err := svc.RevokeAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 revoked, got %d", n)
	}

	// user-2 is untouched.
	if _, err := svc.Rotate(ctx, now.Add(time.Minute), other.RefreshToken); err != nil {
		t.Fatalf("unrelated user's token must survive: %v", err)
	}
}
