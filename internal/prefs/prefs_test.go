package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Filter != defaultFilter {
		t.Fatalf("Filter = %q, want %q", p.Filter, defaultFilter)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "shelf")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Kanagawa\"\nfilter = \"unread\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Kanagawa")
	}
	if p.Filter != "unread" {
		t.Fatalf("Filter = %q, want %q", p.Filter, "unread")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Kanagawa", Filter: "read"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Kanagawa" || loaded.Filter != "read" {
		t.Fatalf("Load = %+v, want Kanagawa/read", loaded)
	}
}

func TestLoad_EmptyFieldsFallBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\nfilter = \" \"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Filter != defaultFilter {
		t.Fatalf("Filter = %q, want %q", p.Filter, defaultFilter)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err == nil {
		t.Fatalf("Load returned nil error for invalid TOML")
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}
