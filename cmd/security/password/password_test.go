package password

import (
	"strings"
	"testing"
)

func testParams() Params {
	// Small parameters keep the test fast; Verify accepts them because
	// bounds only reject hashes larger than defaults.
	return Params{
		MemoryKiB:   8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	enc, err := Hash("correct horse battery staple", testParams())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", enc)
	}

	ok, err := Verify("correct horse battery staple", enc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = Verify("wrong password", enc)
	if err != nil {
		t.Fatalf("Verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := Hash("same password", testParams())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash("same password", testParams())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=3,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=1$!!$aGFzaA",
	}
	for _, c := range cases {
		if _, err := Verify("whatever", c); err != ErrInvalidHash {
			t.Fatalf("hash %q: expected ErrInvalidHash, got %v", c, err)
		}
	}
}

func TestVerifyRejectsOversizedParams(t *testing.T) {
	// m is far beyond 2x default; Verify must refuse before hashing.
	enc := "$argon2id$v=19$m=4194304,t=3,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	if _, err := Verify("whatever", enc); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash for oversized params, got %v", err)
	}
}
