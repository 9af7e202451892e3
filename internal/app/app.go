package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/shelf/internal/books"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses default ~/.config/shelf/prefs.toml
	APIURL       string        // overrides the configured api_url when set
	RefreshEvery time.Duration // overrides refresh_interval when positive
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		apiURL, err := config.NormalizeAPIURL(opts.APIURL)
		if err != nil {
			return err
		}
		cfg.APIURL = apiURL
	}
	if opts.RefreshEvery > 0 {
		cfg.RefreshInterval = opts.RefreshEvery
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		slog.Warn("prefs unreadable, using defaults", slog.String("err", err.Error()))
	}

	client, err := books.NewClient(cfg.APIURL, books.Options{
		ReviewMethod: cfg.ReviewMethod,
		Timeout:      cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("init books client: %w", err)
	}

	store := state.NewStore(client)
	if f, err := state.ParseFilter(userPrefs.Filter); err == nil {
		store.SetFilter(f)
	}

	slog.Info("shelf starting",
		slog.String("api_url", cfg.APIURL),
		slog.String("review_method", cfg.ReviewMethod),
		slog.Duration("refresh_interval", cfg.RefreshInterval),
	)

	StartReloader(ctx, store, cfg.RefreshInterval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		LogPath:   cfg.LogFile,
		APIURL:    cfg.APIURL,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}
