package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/shelf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override shelf config path (optional)")
	apiURL := flag.String("api", "", "book service base URL (optional, overrides config)")
	refreshSeconds := flag.Int("refresh", 0, "background reload interval in seconds (optional, disabled by default)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, APIURL: *apiURL}
	if refresh := *refreshSeconds; refresh > 0 {
		opts.RefreshEvery = time.Duration(refresh) * time.Second
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}
