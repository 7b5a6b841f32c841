package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// listTimeout bounds the simctl list calls used by discovery and validation.
const listTimeout = 30 * time.Second

const (
	defaultPollInterval  = 500 * time.Millisecond
	defaultLaunchTimeout = 10 * time.Second
)

// Simctl drives "xcrun simctl". The zero value is not usable; create one with NewSimctl.
type Simctl struct {
	runner        Runner
	xcrun         string
	deviceSetPath string
	pollInterval  time.Duration
	launchTimeout time.Duration
}

// Option configures a Simctl.
type Option func(*Simctl)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(s *Simctl) {
		s.runner = r
	}
}

// WithXcrun sets the xcrun executable (name or path).
func WithXcrun(path string) Option {
	return func(s *Simctl) {
		if path != "" {
			s.xcrun = path
		}
	}
}

// WithDeviceSet makes every command operate on a custom device set
// ("simctl --set <path>"). An empty path means the default set.
func WithDeviceSet(path string) Option {
	return func(s *Simctl) {
		s.deviceSetPath = path
	}
}

// WithPollInterval sets how often Launch polls for the app's pid.
func WithPollInterval(d time.Duration) Option {
	return func(s *Simctl) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithLaunchTimeout sets the wall-clock budget Launch has to resolve a pid.
func WithLaunchTimeout(d time.Duration) Option {
	return func(s *Simctl) {
		if d > 0 {
			s.launchTimeout = d
		}
	}
}

// NewSimctl returns a Simctl backed by real processes unless overridden.
func NewSimctl(opts ...Option) *Simctl {
	s := &Simctl{
		runner:        ExecRunner{},
		xcrun:         "xcrun",
		pollInterval:  defaultPollInterval,
		launchTimeout: defaultLaunchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeviceSetPath returns the device set this Simctl operates on, or "" for the default set.
func (s *Simctl) DeviceSetPath() string {
	return s.deviceSetPath
}

// args builds the xcrun argument list for a simctl subcommand. When a
// custom device set is configured, "--set <path>" goes right after "simctl".
func (s *Simctl) args(sub ...string) []string {
	base := []string{"simctl"}
	if s.deviceSetPath != "" {
		base = append(base, "--set", s.deviceSetPath)
	}
	return append(base, sub...)
}

func (s *Simctl) run(ctx context.Context, sub ...string) (Output, error) {
	return s.runner.Run(ctx, s.xcrun, s.args(sub...)...)
}

// ResolveSimulator returns the simulator device identifier to use with simctl.
// Priority: flag value, then the stored default, then "booted".
func ResolveSimulator(flagValue, storedDefault string) string {
	if flagValue != "" {
		return flagValue
	}
	if storedDefault != "" {
		return storedDefault
	}
	return "booted"
}

// DefaultDeviceSetPath returns the CoreSimulator default device set directory.
func DefaultDeviceSetPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Developer", "CoreSimulator", "Devices"), nil
}
