package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearShelfEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SHELF_API_URL", "SHELF_REVIEW_METHOD", "SHELF_LOG_FILE", "SHELF_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearShelfEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.ReviewMethod != "PUT" {
		t.Fatalf("ReviewMethod = %q, want PUT", cfg.ReviewMethod)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}

	wantLogFile, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLogFile {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLogFile)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearShelfEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://books.lan:8080  "
review_method = "patch"
request_timeout = "3s"
refresh_interval = "1m"
log_file = "  ~/.shelf/shelf.log  "
log_level = "DEBUG"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://books.lan:8080" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://books.lan:8080")
	}
	if cfg.ReviewMethod != "PATCH" {
		t.Fatalf("ReviewMethod = %q, want PATCH", cfg.ReviewMethod)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Fatalf("RefreshInterval = %v, want 1m", cfg.RefreshInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearShelfEnv(t)
	t.Setenv("SHELF_API_URL", "http://override:9000")
	t.Setenv("SHELF_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://file:1"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://override:9000" {
		t.Fatalf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("LogLevel = %q, want error", cfg.LogLevel)
	}
}

func TestLoad_APIURLWithoutSchemeDefaultsToHTTP(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearShelfEnv(t)
	t.Setenv("SHELF_API_URL", "localhost:4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://localhost:4000" {
		t.Fatalf("APIURL = %q, want http://localhost:4000", cfg.APIURL)
	}
}

func TestNormalizeAPIURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:4000", want: "http://localhost:4000"},
		{in: " https://books.lan/api ", want: "https://books.lan/api"},
		{in: "http://books.lan:8080", want: "http://books.lan:8080"},
		{in: "", wantErr: true},
		{in: "not a url", wantErr: true},
		{in: "http://", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeAPIURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeAPIURL(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeAPIURL(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeAPIURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearShelfEnv(t)

	cases := map[string]string{
		"toml":     `api_url = [`,
		"url":      `api_url = "not a url"`,
		"method":   `review_method = "POST"`,
		"timeout":  `request_timeout = "soon"`,
		"negative": `request_timeout = "-1s"`,
		"refresh":  `refresh_interval = "-5s"`,
		"level":    `log_level = "loud"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load returned nil error for %s", body)
			}
		})
	}
}

func TestLoad_InvalidTOMLMentionsParse(t *testing.T) {
	clearShelfEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want it to mention parse config", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
