// Package prefs handles shelf user preferences persistence.
// Preferences are stored in ~/.config/shelf/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for shelf.
type Prefs struct {
	Theme  string `toml:"theme"`
	Filter string `toml:"filter"`
}

const (
	defaultPrefsPath = "~/.config/shelf/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultFilter    = "all"
)

func defaults() Prefs {
	return Prefs{Theme: defaultTheme, Filter: defaultFilter}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// missing. Unreadable or malformed files also yield defaults; the returned
// error says why so the caller can log it.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return defaults(), fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return defaults(), fmt.Errorf("read prefs: %w", err)
	}

	p := defaults()
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return defaults(), fmt.Errorf("parse prefs: %w", err)
	}

	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if strings.TrimSpace(p.Filter) == "" {
		p.Filter = defaultFilter
	}
	return p, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
