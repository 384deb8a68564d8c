package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	return entry
}

func TestLogger_Module(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelDebug)
	l.Module("evm").Info("verified")

	entry := decode(t, &buf)
	if entry["module"] != "evm" {
		t.Fatalf("module = %v, want %q", entry["module"], "evm")
	}
	if entry["msg"] != "verified" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "verified")
	}
}

func TestLogger_ModuleChain(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelDebug)
	l.Module("evm").With("step", 3).Warn("rejected")

	entry := decode(t, &buf)
	if entry["module"] != "evm" {
		t.Fatalf("module = %v, want %q", entry["module"], "evm")
	}
	if entry["step"] != float64(3) {
		t.Fatalf("step = %v, want 3", entry["step"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("level = %v, want WARN", entry["level"])
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelInfo)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}
	if l.Enabled(slog.LevelDebug) {
		t.Fatal("Enabled(debug) = true at info level")
	}
	if !l.Module("evm").Enabled(slog.LevelWarn) {
		t.Fatal("Enabled(warn) = false at info level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" Warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetDefaultIgnoresNil(t *testing.T) {
	prev := Default()
	SetDefault(nil)
	if Default() != prev {
		t.Fatal("SetDefault(nil) replaced the default logger")
	}
}
