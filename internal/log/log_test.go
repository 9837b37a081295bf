package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		verbose, quiet bool
		want           slog.Level
	}{
		{false, false, slog.LevelInfo},
		{true, false, slog.LevelDebug},
		{false, true, slog.LevelWarn},
		{true, true, slog.LevelWarn},
	}
	for _, tc := range cases {
		if got := Level(tc.verbose, tc.quiet); got != tc.want {
			t.Fatalf("Level(%v, %v) = %v, want %v", tc.verbose, tc.quiet, got, tc.want)
		}
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := Setup(&buf, false, true)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("module", "parser"))
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered:\n%s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "module=parser") {
		t.Fatalf("expected warning in output:\n%s", out)
	}
}
