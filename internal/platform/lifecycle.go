package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"
)

// childEnvPrefix is how simctl forwards environment variables to the launched app.
const childEnvPrefix = "SIMCTL_CHILD_"

// Boot boots the simulator if needed and blocks until it has finished booting.
func (s *Simctl) Boot(ctx context.Context, udid string) error {
	slog.Info("Booting simulator if required", "udid", udid)
	start := time.Now()

	if _, err := s.run(ctx, "bootstatus", udid, "-b"); err != nil {
		return err
	}

	slog.Info("Booted", "udid", udid, "elapsed", time.Since(start))
	return nil
}

// Install installs the app bundle at path onto the simulator.
func (s *Simctl) Install(ctx context.Context, udid, path string) error {
	slog.Info("Installing app", "path", path, "udid", udid)
	start := time.Now()

	if _, err := s.run(ctx, "install", udid, path); err != nil {
		return err
	}

	slog.Info("Installed", "udid", udid, "elapsed", time.Since(start))
	return nil
}

// LaunchRequest describes an app launch. Nil Stdout/Stderr discard the console.
type LaunchRequest struct {
	UDID            string
	BundleID        string
	Args            []string
	Env             map[string]string
	Stdout          io.Writer
	Stderr          io.Writer
	WaitForDebugger bool
}

// LaunchedApp is an app started by Launch. The console stream keeps flowing
// into the request's sinks until the app exits; Done and Wait observe that.
type LaunchedApp struct {
	PID int

	done chan struct{}
	err  error
}

func watchProcess(p Process) *LaunchedApp {
	app := &LaunchedApp{done: make(chan struct{})}
	go func() {
		app.err = p.Wait()
		close(app.done)
	}()
	return app
}

// Done is closed once the simctl launch process has exited and its output
// has been copied to the sinks.
func (a *LaunchedApp) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until Done is closed and returns the launch process's exit error.
func (a *LaunchedApp) Wait() error {
	<-a.done
	return a.err
}

// Launch starts the app, replacing any running instance, and returns once its
// pid is known. The spawned process is left running if the pid never shows up.
func (s *Simctl) Launch(ctx context.Context, req LaunchRequest) (*LaunchedApp, error) {
	if req.UDID == "" || req.BundleID == "" {
		return nil, fmt.Errorf("launch requires a simulator and a bundle id")
	}
	slog.Info("Launching app", "bundleID", req.BundleID, "udid", req.UDID)
	start := time.Now()

	proc, err := s.runner.Start(Command{
		Name:   s.xcrun,
		Args:   s.args(launchArgs(req)...),
		Env:    childEnv(os.Environ(), req.Env),
		Stdout: req.Stdout,
		Stderr: req.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("simctl launch: %w", err)
	}
	app := watchProcess(proc)

	pid, err := s.waitForPid(ctx, req.UDID, req.BundleID)
	if err != nil {
		slog.Warn("Launch failed", "bundleID", req.BundleID, "elapsed", time.Since(start))
		return nil, err
	}
	app.PID = pid

	slog.Info("Launched", "bundleID", req.BundleID, "pid", pid, "elapsed", time.Since(start))
	return app, nil
}

func launchArgs(req LaunchRequest) []string {
	args := []string{"launch"}
	if req.WaitForDebugger {
		args = append(args, "--wait-for-debugger")
	}
	args = append(args, "--terminate-running-process", "--console-pty", req.UDID, req.BundleID)
	return append(args, req.Args...)
}

// childEnv appends env to base with every key prefixed for simctl, in key order.
func childEnv(base []string, env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := append([]string{}, base...)
	for _, k := range keys {
		out = append(out, childEnvPrefix+k+"="+env[k])
	}
	return out
}
