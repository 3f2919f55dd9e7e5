package token

import (
	"testing"
)

func TestHashSHA256HexIsStable(t *testing.T) {
	a := HashSHA256Hex("some-refresh-token")
	b := HashSHA256Hex("some-refresh-token")
	if a != b {
		t.Fatalf("digest not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashSHA256Hex("some-other-token") {
		t.Fatalf("distinct inputs produced identical digests")
	}
}

func TestHashRefreshTokenHexHMACMode(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	plain := HashRefreshTokenHex("tok")
	if plain != HashSHA256Hex("tok") {
		t.Fatalf("expected SHA-256 fallback without HMAC key")
	}

	t.Setenv(HMACEnvKey, "a-very-long-hmac-key-for-tests-0123456789")
	keyed := HashRefreshTokenHex("tok")
	if keyed == plain {
		t.Fatalf("HMAC mode must not match plain SHA-256 digest")
	}
	if len(keyed) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(keyed))
	}
}

func TestHMACKeyFromEnvPolicy(t *testing.T) {
	t.Setenv(HMACEnvKey, "")
	if _, err := HMACKeyFromEnv(32); err != ErrHMACKeyMissing {
		t.Fatalf("expected ErrHMACKeyMissing, got %v", err)
	}

	t.Setenv(HMACEnvKey, "short")
	if _, err := HMACKeyFromEnv(32); err != ErrHMACKeyTooShort {
		t.Fatalf("expected ErrHMACKeyTooShort, got %v", err)
	}

	t.Setenv(HMACEnvKey, "a-very-long-hmac-key-for-tests-0123456789")
	key, err := HMACKeyFromEnv(32)
	if err != nil {
		t.Fatalf("HMACKeyFromEnv: %v", err)
	}
	if len(key) < 32 {
		t.Fatalf("expected >= 32 key bytes, got %d", len(key))
	}
}
