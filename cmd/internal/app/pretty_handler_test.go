package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestStripANSI(t *testing.T) {
	t.Parallel()

	in := ansiBlue + "INFO" + ansiReset + " plain " + ansiRed + "ERR" + ansiReset
	got := stripANSI(in)
	want := "INFO plain ERR"
	if got != want {
		t.Fatalf("stripANSI()=%q want=%q", got, want)
	}
}

func TestPrettyHandlerPlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false)
	log := slog.New(h)

	log.Info("http.request", "method", "get", "status", 200, "duration_ms", 12)

	out := buf.String()
	for _, want := range []string{"[INFO]", "msg=http.request", "method=GET", "status=200", "duration=12ms"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color disabled but output has ANSI escapes: %q", out)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	log := slog.New(h)

	log.Info("below.threshold")
	if buf.Len() != 0 {
		t.Fatalf("info record leaked through warn threshold: %q", buf.String())
	}

	log.Warn("at.threshold")
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestPrettyHandlerGroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newPrettyHandler(&buf, nil, false)
	log := slog.New(h).With(slog.String("component", "authapi")).WithGroup("req")

	log.Info("msg", "id", "abc")

	out := buf.String()
	if !strings.Contains(out, "component=authapi") {
		t.Fatalf("pre-bound attr missing: %q", out)
	}
	if !strings.Contains(out, "req.id=abc") {
		t.Fatalf("group prefix missing: %q", out)
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "", want: `""`},
		{in: "has space", want: `"has space"`},
		{in: `a=b`, want: `"a=b"`},
	}
	for _, tc := range cases {
		if got := quoteIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteIfNeeded(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
