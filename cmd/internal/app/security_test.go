package app

import (
	"strings"
	"testing"
)

func TestValidateSecurityConfig(t *testing.T) {
	t.Run("policy off", func(t *testing.T) {
		if err := ValidateSecurityConfig(Config{RequireTokenHMAC: false}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("policy on, key missing", func(t *testing.T) {
		t.Setenv("PASSAGE_TOKEN_HMAC_KEY", "")
		err := ValidateSecurityConfig(Config{RequireTokenHMAC: true})
		if err == nil || !strings.Contains(err.Error(), "missing") {
			t.Fatalf("want missing-key error, got %v", err)
		}
	})

	t.Run("policy on, key too short", func(t *testing.T) {
		t.Setenv("PASSAGE_TOKEN_HMAC_KEY", "short")
		err := ValidateSecurityConfig(Config{RequireTokenHMAC: true})
		if err == nil || !strings.Contains(err.Error(), "too short") {
			t.Fatalf("want short-key error, got %v", err)
		}
	})

	t.Run("policy on, key ok", func(t *testing.T) {
		t.Setenv("PASSAGE_TOKEN_HMAC_KEY", strings.Repeat("k", 32))
		if err := ValidateSecurityConfig(Config{RequireTokenHMAC: true}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
