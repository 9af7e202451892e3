package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_WritesJSONAndFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warning")

	logger.Info("dropped")
	logger.Warn("kept", slog.Int64("id", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "kept" {
		t.Fatalf("msg = %v, want kept", rec["msg"])
	}
	if rec["id"] != float64(3) {
		t.Fatalf("id = %v, want 3", rec["id"])
	}
}

func TestSetup_CreatesFileAndInstallsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "shelf.log")
	closeLog, err := Setup(path, "info")
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	slog.Info("hello from test")
	if err := closeLog(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello from test"`) {
		t.Fatalf("log file = %q, want the record", data)
	}
}
