package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/k-kohey/simdrive/internal/present"
	"github.com/spf13/cobra"
)

var (
	listWatch       bool
	listInteractive bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available iOS simulators",
	Long: `Lists available iOS simulators, newest runtime first.

With --watch the list is printed again whenever the device set changes
(one JSON document per line with -o json). With --interactive a picker is
shown and the chosen UDID is printed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	sim, err := newSimctl()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch {
	case listInteractive:
		chosen, ok, err := present.PickSimulator(sim.ListSimulators(ctx))
		if err != nil || !ok {
			return err
		}
		fmt.Println(chosen.UDID)
		return nil
	case listWatch:
		return watchList(cmd, sim)
	default:
		return present.Simulators(os.Stdout, outputFormat(), sim.ListSimulators(ctx))
	}
}

func watchList(cmd *cobra.Command, sim *platform.Simctl) error {
	dir := sim.DeviceSetPath()
	if dir == "" {
		var err error
		if dir, err = platform.DefaultDeviceSetPath(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format := outputFormat()
	lines := present.NewLineWriter(os.Stdout)
	return sim.WatchSimulators(ctx, dir, func(sims []platform.Simulator) {
		var err error
		if format == present.JSON {
			err = lines.Send(sims)
		} else {
			err = writeWatchFrame(os.Stdout, format, sims)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	})
}

func writeWatchFrame(w io.Writer, format present.Format, sims []platform.Simulator) error {
	if format == present.YAML {
		if _, err := fmt.Fprintln(w, "---"); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return present.Simulators(w, format, sims)
}

func init() {
	listCmd.Flags().BoolVarP(&listWatch, "watch", "w", false, "keep listing as the device set changes")
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "pick a simulator interactively and print its UDID")
	listCmd.MarkFlagsMutuallyExclusive("watch", "interactive")
	rootCmd.AddCommand(listCmd)
}
