package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events CoreSimulator produces while a
// device boots or is created.
const watchDebounce = 300 * time.Millisecond

// WatchSimulators lists simulators once, then again every time the device set
// directory changes, calling onChange with each new list. It returns when ctx
// is cancelled. onChange runs on the watcher goroutine.
func (s *Simctl) WatchSimulators(ctx context.Context, deviceSetDir string, onChange func([]Simulator)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating device set watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(deviceSetDir); err != nil {
		return fmt.Errorf("watching %s: %w", deviceSetDir, err)
	}
	// Each device keeps its state in <udid>/device.plist, one level down.
	entries, err := os.ReadDir(deviceSetDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", deviceSetDir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			addWatch(watcher, filepath.Join(deviceSetDir, e.Name()))
		}
	}

	onChange(s.ListSimulators(ctx))

	var debounce *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(deviceSetDir) {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					addWatch(watcher, event.Name)
				}
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Device set watcher error", "err", err)
		case <-fire:
			onChange(s.ListSimulators(ctx))
		}
	}
}

func addWatch(w *fsnotify.Watcher, dir string) {
	if err := w.Add(dir); err != nil {
		slog.Debug("Cannot watch device directory", "path", dir, "err", err)
	}
}
