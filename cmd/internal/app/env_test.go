package app

import (
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("PASSAGE_TEST_STR", "  value  ")
	if got := EnvString("PASSAGE_TEST_STR", "def"); got != "value" {
		t.Fatalf("EnvString=%q want=%q", got, "value")
	}
	if got := EnvString("PASSAGE_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("EnvString=%q want default", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("PASSAGE_TEST_BOOL", "true")
	if !EnvBool("PASSAGE_TEST_BOOL", false) {
		t.Fatalf("EnvBool: want true")
	}
	t.Setenv("PASSAGE_TEST_BOOL", "nope")
	if EnvBool("PASSAGE_TEST_BOOL", false) {
		t.Fatalf("EnvBool: invalid value must fall back to default")
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("PASSAGE_TEST_INT", "42")
	if got := EnvInt("PASSAGE_TEST_INT", 7); got != 42 {
		t.Fatalf("EnvInt=%d want=42", got)
	}
	t.Setenv("PASSAGE_TEST_INT", "-3")
	if got := EnvInt("PASSAGE_TEST_INT", 7); got != 7 {
		t.Fatalf("EnvInt=%d want default for non-positive", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("PASSAGE_TEST_DUR", "90s")
	if got := EnvDuration("PASSAGE_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("EnvDuration=%v want=90s", got)
	}
	t.Setenv("PASSAGE_TEST_DUR", "-5s")
	if got := EnvDuration("PASSAGE_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("EnvDuration=%v want default for non-positive", got)
	}
}

func TestEnvStringSlice(t *testing.T) {
	t.Setenv("PASSAGE_TEST_SLICE", "a, b ,,c")
	got := EnvStringSlice("PASSAGE_TEST_SLICE", nil)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("EnvStringSlice=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EnvStringSlice=%v want=%v", got, want)
		}
	}
}
