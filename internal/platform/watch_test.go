package platform

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchSimulators(t *testing.T) {
	dir := t.TempDir()
	var lists atomic.Int32
	runner := &fakeRunner{respond: func(args []string) (Output, error) {
		lists.Add(1)
		return Output{Stdout: listingFixture}, nil
	}}
	s := NewSimctl(WithRunner(runner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan []Simulator, 8)
	done := make(chan error, 1)
	go func() {
		done <- s.WatchSimulators(ctx, dir, func(sims []Simulator) {
			updates <- sims
		})
	}()

	select {
	case sims := <-updates:
		if len(sims) != 4 {
			t.Errorf("initial list has %d simulators, want 4", len(sims))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial list")
	}

	if err := os.Mkdir(filepath.Join(dir, "NEW-UDID"), 0o755); err != nil {
		t.Fatal(err)
	}
	select {
	case <-updates:
	case <-time.After(5 * time.Second):
		t.Fatal("no list after the device set changed")
	}
	if lists.Load() < 2 {
		t.Errorf("simctl list ran %d times, want at least 2", lists.Load())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchSimulators = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchSimulators_MissingDir(t *testing.T) {
	s := NewSimctl(WithRunner(&fakeRunner{}))
	err := s.WatchSimulators(context.Background(), filepath.Join(t.TempDir(), "missing"), func([]Simulator) {
		t.Error("onChange called for a missing directory")
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
