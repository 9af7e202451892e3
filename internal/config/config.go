package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything shelf needs at startup.
type Config struct {
	APIURL         string
	ReviewMethod   string
	RequestTimeout time.Duration
	// RefreshInterval reloads the collection in the background when
	// positive. Zero disables it.
	RefreshInterval time.Duration
	LogFile         string
	LogLevel        string
}

const (
	defaultConfigPath   = "~/.config/shelf/config.toml"
	defaultAPIURL       = "http://localhost:4000"
	defaultReviewMethod = "PUT"
	defaultLogFile      = "~/.local/state/shelf/shelf.log"
	defaultLogLevel     = "info"
)

// overrides are read from the environment after the file.
type overrides struct {
	APIURL       string `env:"SHELF_API_URL"`
	ReviewMethod string `env:"SHELF_REVIEW_METHOD"`
	LogFile      string `env:"SHELF_LOG_FILE"`
	LogLevel     string `env:"SHELF_LOG_LEVEL"`
}

// Load locates and parses the shelf config, falling back to defaults when
// missing. Environment variables (optionally from a .env file in the working
// directory) override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:       defaultAPIURL,
		ReviewMethod: defaultReviewMethod,
		LogFile:      defaultLogFile,
		LogLevel:     defaultLogLevel,
	}

	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	_ = godotenv.Load(".env")
	var o overrides
	if err := env.Parse(&o); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	applyOverrides(&cfg, o)

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		ReviewMethod   string `toml:"review_method"`
		RequestTimeout string `toml:"request_timeout"`
		Refresh        string `toml:"refresh_interval"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.ReviewMethod); v != "" {
		cfg.ReviewMethod = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.Refresh); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: refresh_interval: %w", err)
		}
		cfg.RefreshInterval = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func applyOverrides(cfg *Config, o overrides) {
	if v := strings.TrimSpace(o.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(o.ReviewMethod); v != "" {
		cfg.ReviewMethod = v
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func (c *Config) normalize() error {
	apiURL, err := NormalizeAPIURL(c.APIURL)
	if err != nil {
		return err
	}
	c.APIURL = apiURL

	c.ReviewMethod = strings.ToUpper(c.ReviewMethod)
	if c.ReviewMethod != "PUT" && c.ReviewMethod != "PATCH" {
		return fmt.Errorf("invalid review_method %q: want PUT or PATCH", c.ReviewMethod)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request_timeout %s: must not be negative", c.RequestTimeout)
	}

	if c.RefreshInterval < 0 {
		return fmt.Errorf("invalid refresh_interval %s: must not be negative", c.RefreshInterval)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	c.LogFile = mustExpand(c.LogFile)
	return nil
}

// NormalizeAPIURL trims raw and assumes http:// when no scheme is given.
// The result must name a host.
func NormalizeAPIURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid api_url %q", raw)
	}
	return trimmed, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
