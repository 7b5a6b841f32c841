package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/k-kohey/simdrive/internal/present"
	"github.com/spf13/cobra"
)

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <udid>",
	Short: "Check that a simulator is still available",
	Long:  "Exits non-zero when the simulator is not listed as available by simctl.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := newSimctl()
		if err != nil {
			return err
		}
		udid := args[0]
		valid := sim.IsValid(cmd.Context(), platform.Simulator{UDID: udid})

		result := struct {
			UDID  string `json:"udid" yaml:"udid"`
			Valid bool   `json:"valid" yaml:"valid"`
		}{udid, valid}
		if err := present.Value(os.Stdout, outputFormat(), result, func(w io.Writer) error {
			state := "available"
			if !valid {
				state = "not available"
			}
			_, err := fmt.Fprintf(w, "%s is %s\n", udid, state)
			return err
		}); err != nil {
			return err
		}
		if !valid {
			return fmt.Errorf("simulator %s is not available", udid)
		}
		return nil
	},
}

// --- boot ---

var bootDevice string

var bootCmd = &cobra.Command{
	Use:   "boot [udid]",
	Short: "Boot a simulator and wait until it is ready",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := newSimctl()
		if err != nil {
			return err
		}
		udid := deviceArg(args, bootDevice)
		if err := sim.Boot(cmd.Context(), udid); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Booted %s\n", udid)
		return nil
	},
}

// --- install ---

var installDevice string

var installCmd = &cobra.Command{
	Use:   "install <path/to/App.app>",
	Short: "Install an app bundle on a simulator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := newSimctl()
		if err != nil {
			return err
		}
		appPath := args[0]
		udid := resolveDevice(installDevice)

		info, infoErr := platform.ReadBundleInfo(appPath)
		if infoErr != nil {
			slog.Warn("Could not read bundle metadata", "path", appPath, "err", infoErr)
		}

		if err := sim.Install(cmd.Context(), udid, appPath); err != nil {
			return err
		}

		result := struct {
			UDID   string              `json:"udid" yaml:"udid"`
			Path   string              `json:"path" yaml:"path"`
			Bundle platform.BundleInfo `json:"bundle" yaml:"bundle"`
		}{udid, appPath, info}
		return present.Value(os.Stdout, outputFormat(), result, func(w io.Writer) error {
			if info.BundleID == "" {
				_, err := fmt.Fprintf(w, "Installed %s on %s\n", appPath, udid)
				return err
			}
			_, err := fmt.Fprintf(w, "Installed %s (%s) on %s\n", info.BundleID, appPath, udid)
			return err
		})
	},
}

// deviceArg prefers a positional udid over the --device flag.
func deviceArg(args []string, flagValue string) string {
	if len(args) > 0 {
		return args[0]
	}
	return resolveDevice(flagValue)
}

func init() {
	bootCmd.Flags().StringVar(&bootDevice, "device", "", "simulator UDID (default: stored default, then booted)")
	installCmd.Flags().StringVar(&installDevice, "device", "", "simulator UDID (default: stored default, then booted)")
	rootCmd.AddCommand(validateCmd, bootCmd, installCmd)
}
