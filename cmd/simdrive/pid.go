package main

import (
	"fmt"
	"io"
	"os"

	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/k-kohey/simdrive/internal/present"
	"github.com/spf13/cobra"
)

var pidDevice string

var pidCmd = &cobra.Command{
	Use:   "pid [bundle-id]",
	Short: "Print the pid of a running app on a simulator",
	Long:  "Without a bundle id, the app from the last 'simdrive launch' is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := newSimctl()
		if err != nil {
			return err
		}

		udid := resolveDevice(pidDevice)
		var bundleID string
		if len(args) == 1 {
			bundleID = args[0]
		} else {
			last, err := lastLaunch()
			if err != nil {
				return err
			}
			bundleID = last.BundleID
			if pidDevice == "" {
				udid = last.UDID
			}
		}

		pid, err := sim.PidFor(cmd.Context(), udid, bundleID)
		if err != nil {
			return err
		}
		result := launchResult{UDID: udid, BundleID: bundleID, PID: pid}
		return present.Value(os.Stdout, outputFormat(), result, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%d\n", pid)
			return err
		})
	},
}

func lastLaunch() (*platform.LaunchInfo, error) {
	store, err := platform.NewConfigStore()
	if err != nil {
		return nil, err
	}
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	if st.LastLaunch == nil {
		return nil, fmt.Errorf("no bundle id given and no previous launch recorded")
	}
	return st.LastLaunch, nil
}

func init() {
	pidCmd.Flags().StringVar(&pidDevice, "device", "", "simulator UDID (default: stored default, then booted)")
	rootCmd.AddCommand(pidCmd)
}
