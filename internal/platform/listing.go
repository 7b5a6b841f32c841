package platform

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedListing is returned when simctl's JSON lacks a section we rely on.
var ErrMalformedListing = errors.New("malformed simctl listing")

// DeviceState is a simulator power state as reported by simctl.
type DeviceState string

const (
	StateShutdown     DeviceState = "Shutdown"
	StateBooted       DeviceState = "Booted"
	StateBooting      DeviceState = "Booting"
	StateShuttingDown DeviceState = "Shutting Down"
	StateCreating     DeviceState = "Creating"
)

// Known reports whether s is one of the states simctl is known to emit.
func (s DeviceState) Known() bool {
	switch s {
	case StateShutdown, StateBooted, StateBooting, StateShuttingDown, StateCreating:
		return true
	}
	return false
}

type simRuntime struct {
	Identifier   string `json:"identifier"`
	IsAvailable  bool   `json:"isAvailable"`
	Version      string `json:"version"`
	BuildVersion string `json:"buildversion"`
	Name         string `json:"name"`
}

type simDevice struct {
	UDID        string      `json:"udid"`
	Name        string      `json:"name"`
	IsAvailable bool        `json:"isAvailable"`
	State       DeviceState `json:"state"`
	DataPath    string      `json:"dataPath"`
	LogPath     string      `json:"logPath"`
}

// simctlListing is the subset of "simctl list --json" this package reads.
// Runtimes is nil for "simctl list devices --json".
type simctlListing struct {
	Runtimes []simRuntime           `json:"runtimes"`
	Devices  map[string][]simDevice `json:"devices"`
}

// parseListing decodes simctl list output. The devices section is mandatory;
// the runtimes section is mandatory only when wantRuntimes is set. Devices
// without a udid are dropped.
func parseListing(data []byte, wantRuntimes bool) (simctlListing, error) {
	var raw struct {
		Runtimes *[]simRuntime           `json:"runtimes"`
		Devices  *map[string][]simDevice `json:"devices"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return simctlListing{}, fmt.Errorf("parsing simctl output: %w", err)
	}
	if raw.Devices == nil {
		return simctlListing{}, fmt.Errorf("%w: missing \"devices\"", ErrMalformedListing)
	}
	if wantRuntimes && raw.Runtimes == nil {
		return simctlListing{}, fmt.Errorf("%w: missing \"runtimes\"", ErrMalformedListing)
	}

	listing := simctlListing{Devices: make(map[string][]simDevice, len(*raw.Devices))}
	if raw.Runtimes != nil {
		listing.Runtimes = *raw.Runtimes
	}
	for runtime, devices := range *raw.Devices {
		kept := devices[:0]
		for _, d := range devices {
			if d.UDID == "" {
				continue
			}
			kept = append(kept, d)
		}
		listing.Devices[runtime] = kept
	}
	return listing, nil
}
