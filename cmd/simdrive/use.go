package main

import (
	"fmt"

	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/k-kohey/simdrive/internal/present"
	"github.com/spf13/cobra"
)

var (
	useClear       bool
	useInteractive bool
)

var useCmd = &cobra.Command{
	Use:   "use [udid]",
	Short: "Set the default simulator for commands without --device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := platform.NewConfigStore()
		if err != nil {
			return err
		}
		if useClear {
			if err := store.ClearDefault(); err != nil {
				return err
			}
			fmt.Println("Default simulator cleared.")
			return nil
		}

		if len(args) == 0 && !useInteractive {
			current, err := store.GetDefault()
			if err != nil {
				return err
			}
			if current == "" {
				fmt.Println("No default simulator set.")
			} else {
				fmt.Println(current)
			}
			return nil
		}

		sim, err := newSimctl()
		if err != nil {
			return err
		}
		var udid string
		if useInteractive {
			chosen, ok, err := present.PickSimulator(sim.ListSimulators(cmd.Context()))
			if err != nil || !ok {
				return err
			}
			udid = chosen.UDID
		} else {
			udid = args[0]
			if !sim.IsValid(cmd.Context(), platform.Simulator{UDID: udid}) {
				return fmt.Errorf("simulator %s is not available. Run 'simdrive list' to see available simulators", udid)
			}
		}

		if err := store.SetDefault(udid); err != nil {
			return err
		}
		fmt.Printf("Default simulator set to %s\n", udid)
		return nil
	},
}

func init() {
	useCmd.Flags().BoolVar(&useClear, "clear", false, "clear the default simulator")
	useCmd.Flags().BoolVarP(&useInteractive, "interactive", "i", false, "pick the default simulator interactively")
	useCmd.MarkFlagsMutuallyExclusive("clear", "interactive")
	rootCmd.AddCommand(useCmd)
}
