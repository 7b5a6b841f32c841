package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/k-kohey/simdrive/internal/config"
	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/k-kohey/simdrive/internal/present"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	deviceSet  string
	outputFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "simdrive",
	Short:         "Drive iOS simulators through xcrun simctl",
	Long:          "simdrive lists, validates, boots, installs to and launches apps on iOS simulators for test harnesses.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $HOME/.simdrive/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&deviceSet, "set", "", "custom simulator device set path")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "output format: table, json, yaml")
}

func initConfig(cmd *cobra.Command) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("set") {
		c.DeviceSet = deviceSet
	}
	if cmd.Flags().Changed("output") {
		c.Output = outputFlag
	}
	if _, err := present.ParseFormat(c.Output); err != nil {
		return err
	}
	cfg = c

	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

// newSimctl checks that xcrun is present and builds a Simctl from the loaded config.
func newSimctl() (*platform.Simctl, error) {
	if err := platform.CheckXcrun(cfg.Xcrun); err != nil {
		return nil, err
	}
	return platform.NewSimctl(
		platform.WithXcrun(cfg.Xcrun),
		platform.WithDeviceSet(cfg.DeviceSet),
		platform.WithPollInterval(cfg.Launch.PollInterval),
		platform.WithLaunchTimeout(cfg.Launch.Timeout),
	), nil
}

func outputFormat() present.Format {
	f, _ := present.ParseFormat(cfg.Output)
	return f
}

// resolveDevice picks the simulator for a command: the flag, then the stored
// default, then "booted".
func resolveDevice(flagValue string) string {
	var stored string
	if store, err := platform.NewConfigStore(); err == nil {
		if stored, err = store.GetDefault(); err != nil {
			slog.Warn("Failed to read default simulator", "err", err)
		}
	}
	return platform.ResolveSimulator(flagValue, stored)
}
