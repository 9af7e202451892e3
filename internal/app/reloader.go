package app

import (
	"context"
	"log/slog"
	"time"
)

// loader is the part of state.Store the reloader needs.
type loader interface {
	Load(ctx context.Context) error
}

// StartReloader launches a goroutine that reloads the collection every
// interval until ctx is cancelled. A failed load is logged and the next one
// runs on the same schedule. A non-positive interval disables reloading.
func StartReloader(ctx context.Context, store loader, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if err := store.Load(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				slog.Warn("background reload failed",
					slog.Int("consecutive_failures", failures),
					slog.String("err", err.Error()),
				)
				continue
			}
			failures = 0
		}
	}()
}
