package platform

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

const (
	runtimePrefix    = "com.apple.CoreSimulator.SimRuntime."
	iosRuntimePrefix = runtimePrefix + "iOS"

	simulatorType = "Simulator"
	simulatorSDK  = "iphonesimulator"
)

// Simulator describes one available iOS simulator.
type Simulator struct {
	UDID         string      `json:"udid" yaml:"udid"`
	Name         string      `json:"name" yaml:"name"`
	Type         string      `json:"type" yaml:"type"`
	Version      string      `json:"version" yaml:"version"`
	BuildVersion string      `json:"buildVersion" yaml:"buildVersion"`
	Runtime      string      `json:"runtime" yaml:"runtime"`
	SDK          string      `json:"sdk" yaml:"sdk"`
	DataPath     string      `json:"dataPath" yaml:"dataPath"`
	LogPath      string      `json:"logPath" yaml:"logPath"`
	// State is reported as simctl emits it. Values outside the known
	// DeviceState set are passed through unchanged.
	State        DeviceState `json:"state" yaml:"state"`
}

// ListSimulators returns the available iOS simulators, newest runtime first.
// It never fails: errors are logged and an empty list is returned.
func (s *Simctl) ListSimulators(ctx context.Context) []Simulator {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := s.run(ctx, "list", "--json")
	if err != nil {
		slog.Error("Failed to list simulators", "err", err)
		return []Simulator{}
	}
	if out.Stderr != "" {
		slog.Error("simctl list", "stderr", strings.TrimSpace(out.Stderr))
	}

	sims, err := simulatorsFromListing([]byte(out.Stdout))
	if err != nil {
		slog.Error("Failed to list simulators", "err", err)
		return []Simulator{}
	}
	slog.Info("Found simulators", "count", len(sims))
	return sims
}

// simulatorsFromListing turns "simctl list --json" output into sorted descriptors.
func simulatorsFromListing(data []byte) ([]Simulator, error) {
	listing, err := parseListing(data, true)
	if err != nil {
		return nil, err
	}

	runtimes := make(map[string]simRuntime, len(listing.Runtimes))
	for _, rt := range listing.Runtimes {
		if rt.IsAvailable {
			runtimes[rt.Identifier] = rt
		}
	}

	sims := []Simulator{}
	for runtimeID, devices := range listing.Devices {
		if !strings.HasPrefix(runtimeID, iosRuntimePrefix) {
			continue
		}
		// A booted device can outlive its runtime's availability, and a
		// runtime record may leave fields blank. Missing fields are derived
		// from the identifier.
		info := withFallback(runtimes[runtimeID], fallbackRuntime(runtimeID))
		for _, d := range devices {
			if !d.IsAvailable {
				continue
			}
			if !d.State.Known() {
				slog.Debug("Unknown simulator state", "udid", d.UDID, "state", d.State)
			}
			sims = append(sims, Simulator{
				UDID:         d.UDID,
				Name:         d.Name,
				Type:         simulatorType,
				Version:      info.Version,
				BuildVersion: info.BuildVersion,
				Runtime:      info.Name,
				SDK:          simulatorSDK,
				DataPath:     d.DataPath,
				LogPath:      d.LogPath,
				State:        d.State,
			})
		}
	}

	sortSimulators(sims)
	return sims, nil
}

// fallbackRuntime derives runtime metadata from an identifier such as
// "com.apple.CoreSimulator.SimRuntime.iOS-16-2": version "16.2",
// name "iOS 16.2", build version "iOS-16-2".
func fallbackRuntime(runtimeID string) simRuntime {
	tail := strings.TrimPrefix(runtimeID, runtimePrefix)
	rt := simRuntime{Identifier: runtimeID, BuildVersion: tail, Name: tail}
	platform, version, ok := strings.Cut(tail, "-")
	if !ok {
		return rt
	}
	rt.Version = strings.ReplaceAll(version, "-", ".")
	rt.Name = platform + " " + rt.Version
	return rt
}

// withFallback fills the empty metadata fields of rt from fb.
func withFallback(rt, fb simRuntime) simRuntime {
	if rt.Version == "" {
		rt.Version = fb.Version
	}
	if rt.BuildVersion == "" {
		rt.BuildVersion = fb.BuildVersion
	}
	if rt.Name == "" {
		rt.Name = fb.Name
	}
	return rt
}

// sortSimulators orders by runtime name descending, then device name
// ascending, comparing digit runs numerically.
func sortSimulators(sims []Simulator) {
	col := newNumericCollator()
	sort.SliceStable(sims, func(i, j int) bool {
		if c := col.CompareString(sims[i].Runtime, sims[j].Runtime); c != 0 {
			return c > 0
		}
		return col.CompareString(sims[i].Name, sims[j].Name) < 0
	})
}
