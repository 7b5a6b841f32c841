package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

// ErrPidNotFound means the app has no entry in the simulator's launchd list yet.
var ErrPidNotFound = errors.New("pid not found")

// ErrLaunchTimeout means the launched app never showed up within the launch budget.
var ErrLaunchTimeout = errors.New("could not launch and get pid")

// PidFor returns the pid of the running app with the given bundle id on the
// simulator, read from "launchctl list" inside the device.
func (s *Simctl) PidFor(ctx context.Context, udid, bundleID string) (int, error) {
	if bundleID == "" {
		return 0, fmt.Errorf("bundle id is required")
	}
	slog.Debug("Getting pid", "bundleID", bundleID, "udid", udid)
	start := time.Now()

	out, err := s.run(ctx, "spawn", udid, "launchctl", "list")
	if err != nil {
		return 0, err
	}
	pid, err := parsePid(out.Stdout, bundleID)
	if err != nil {
		return 0, err
	}

	slog.Info("Got pid", "bundleID", bundleID, "pid", pid, "elapsed", time.Since(start))
	return pid, nil
}

// parsePid finds the launchctl line for bundleID, e.g.
//
//	1234	0	UIKitApplication:com.example.app[8a3f][rb-legacy]
//
// and returns its leading pid.
func parsePid(launchctlList, bundleID string) (int, error) {
	re := regexp.MustCompile(`(?m)^(\d+).+?UIKitApplication:` + regexp.QuoteMeta(bundleID) + `.*$`)
	m := re.FindStringSubmatch(launchctlList)
	if m == nil {
		return 0, fmt.Errorf("could not find pid for %s: %w", bundleID, ErrPidNotFound)
	}
	pid, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parsing pid %q: %w", m[1], err)
	}
	return pid, nil
}

// waitForPid polls PidFor every pollInterval until it succeeds or the launch
// budget, measured from the first attempt, runs out. simctl launch buffers its
// own pid output until the app exits, so polling is the only way to get it early.
func (s *Simctl) waitForPid(ctx context.Context, udid, bundleID string) (int, error) {
	deadline := time.Now().Add(s.launchTimeout)
	for time.Now().Before(deadline) {
		pid, err := s.PidFor(ctx, udid, bundleID)
		if err == nil {
			return pid, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		slog.Info("Waiting for app to launch", "bundleID", bundleID, "err", err)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
	return 0, fmt.Errorf("%w: %s not running after %v", ErrLaunchTimeout, bundleID, s.launchTimeout)
}
