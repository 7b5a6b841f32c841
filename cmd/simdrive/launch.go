package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/k-kohey/simdrive/internal/present"
	"github.com/spf13/cobra"
)

var (
	launchDevice          string
	launchEnv             []string
	launchEnvFile         string
	launchStdout          string
	launchStderr          string
	launchWaitForDebugger bool
	launchDetachDebugger  bool
	launchWait            bool
)

var launchCmd = &cobra.Command{
	Use:   "launch <bundle-id|path/to/App.app> [-- app-args...]",
	Short: "Launch an app on a simulator and print its pid",
	Long: `Launches the app, terminating any running instance, and prints its pid
once it shows up on the simulator.

The app's console goes to --stdout/--stderr files. With --wait, simdrive
stays attached until the app exits and streams to the terminal by default.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLaunch,
}

type launchResult struct {
	UDID     string `json:"udid" yaml:"udid"`
	BundleID string `json:"bundleId" yaml:"bundleId"`
	PID      int    `json:"pid" yaml:"pid"`
}

func runLaunch(cmd *cobra.Command, args []string) error {
	if launchDetachDebugger && !launchWaitForDebugger {
		return fmt.Errorf("--detach-debugger requires --wait-for-debugger")
	}
	sim, err := newSimctl()
	if err != nil {
		return err
	}

	bundleID, err := bundleIDArg(args[0])
	if err != nil {
		return err
	}
	env, err := launchEnvironment()
	if err != nil {
		return err
	}

	stdout, closeStdout, err := openSink(launchStdout, os.Stdout)
	if err != nil {
		return err
	}
	defer closeStdout()
	stderr, closeStderr, err := openSink(launchStderr, os.Stderr)
	if err != nil {
		return err
	}
	defer closeStderr()

	ctx := cmd.Context()
	req := platform.LaunchRequest{
		UDID:            resolveDevice(launchDevice),
		BundleID:        bundleID,
		Args:            args[1:],
		Env:             env,
		Stdout:          stdout,
		Stderr:          stderr,
		WaitForDebugger: launchWaitForDebugger,
	}
	app, err := sim.Launch(ctx, req)
	if err != nil {
		return err
	}

	if store, err := platform.NewConfigStore(); err == nil {
		if err := store.RecordLaunch(platform.LaunchInfo{
			UDID: req.UDID, BundleID: bundleID, PID: app.PID, LaunchedAt: time.Now(),
		}); err != nil {
			slog.Warn("Failed to record launch", "err", err)
		}
	}

	result := launchResult{UDID: req.UDID, BundleID: bundleID, PID: app.PID}
	if err := present.Value(os.Stdout, outputFormat(), result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d\n", app.PID)
		return err
	}); err != nil {
		return err
	}

	if launchDetachDebugger {
		if _, err := platform.DetachDebugger(ctx, app.PID); err != nil {
			return err
		}
	}
	if launchWait {
		if err := app.Wait(); err != nil {
			slog.Debug("simctl launch exited", "err", err)
		}
	}
	return nil
}

// bundleIDArg accepts a bundle id or an .app path whose Info.plist names it.
func bundleIDArg(ref string) (string, error) {
	if !platform.IsAppBundle(ref) {
		return ref, nil
	}
	info, err := platform.ReadBundleInfo(ref)
	if err != nil {
		return "", err
	}
	return info.BundleID, nil
}

// launchEnvironment merges --env-file with --env pairs, the flags winning.
func launchEnvironment() (map[string]string, error) {
	env := map[string]string{}
	if launchEnvFile != "" {
		fileEnv, err := platform.ReadEnvFile(launchEnvFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}
	flagEnv, err := platform.ParseEnvPairs(launchEnv)
	if err != nil {
		return nil, err
	}
	for k, v := range flagEnv {
		env[k] = v
	}
	return env, nil
}

// openSink opens path for the app's console. Without a path the console goes
// to the terminal when waiting and is discarded otherwise.
func openSink(path string, terminal *os.File) (io.Writer, func(), error) {
	if path == "" {
		if launchWait {
			return terminal, func() {}, nil
		}
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening console sink: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func init() {
	launchCmd.Flags().StringVar(&launchDevice, "device", "", "simulator UDID (default: stored default, then booted)")
	launchCmd.Flags().StringArrayVarP(&launchEnv, "env", "e", nil, "environment variable for the app, KEY=VALUE (repeatable)")
	launchCmd.Flags().StringVar(&launchEnvFile, "env-file", "", "file of KEY=VALUE lines for the app's environment")
	launchCmd.Flags().StringVar(&launchStdout, "stdout", "", "file receiving the app's stdout")
	launchCmd.Flags().StringVar(&launchStderr, "stderr", "", "file receiving the app's stderr")
	launchCmd.Flags().BoolVar(&launchWaitForDebugger, "wait-for-debugger", false, "suspend the app until a debugger attaches")
	launchCmd.Flags().BoolVar(&launchDetachDebugger, "detach-debugger", false, "attach and detach lldb so a --wait-for-debugger app resumes")
	launchCmd.Flags().BoolVar(&launchWait, "wait", false, "stay attached until the app exits")
	rootCmd.AddCommand(launchCmd)
}
