package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	err   error
	seen  chan struct{}
}

func (l *countingLoader) Load(context.Context) error {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	select {
	case l.seen <- struct{}{}:
	default:
	}
	return l.err
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestStartReloader_ReloadsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := &countingLoader{seen: make(chan struct{}, 1)}

	StartReloader(ctx, l, 5*time.Millisecond)

	for range 2 {
		select {
		case <-l.seen:
		case <-time.After(2 * time.Second):
			t.Fatalf("reloader did not call Load in time")
		}
	}
	cancel()

	if l.count() < 2 {
		t.Fatalf("Load calls = %d, want at least 2", l.count())
	}
}

func TestStartReloader_DisabledForZeroInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := &countingLoader{seen: make(chan struct{}, 1), err: errors.New("boom")}

	StartReloader(ctx, l, 0)
	time.Sleep(20 * time.Millisecond)

	if l.count() != 0 {
		t.Fatalf("Load calls = %d, want 0", l.count())
	}
}

func TestStartReloader_FailuresKeepFixedInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := &countingLoader{seen: make(chan struct{}, 1), err: errors.New("service down")}

	StartReloader(ctx, l, 100*time.Millisecond)

	// Five failing loads take 500ms on a fixed schedule; a doubling wait
	// would need over 3s.
	deadline := time.After(1500 * time.Millisecond)
	for i := range 5 {
		select {
		case <-l.seen:
		case <-deadline:
			t.Fatalf("only %d loads before deadline, want 5 at a fixed interval", i)
		}
	}
}
