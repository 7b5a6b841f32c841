package platform

import (
	"context"
	"log/slog"
	"strings"
)

// IsValid reports whether sim is still listed as an available device,
// regardless of its runtime's availability. Errors count as invalid.
func (s *Simctl) IsValid(ctx context.Context, sim Simulator) bool {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	out, err := s.run(ctx, "list", "devices", "--json")
	if err != nil {
		slog.Error("Failed to validate simulator", "udid", sim.UDID, "err", err)
		return false
	}
	if out.Stderr != "" {
		slog.Error("simctl list devices", "stderr", strings.TrimSpace(out.Stderr))
	}

	listing, err := parseListing([]byte(out.Stdout), false)
	if err != nil {
		slog.Error("Failed to validate simulator", "udid", sim.UDID, "err", err)
		return false
	}
	return hasAvailableDevice(listing, sim.UDID)
}

func hasAvailableDevice(listing simctlListing, udid string) bool {
	if udid == "" {
		return false
	}
	for _, devices := range listing.Devices {
		for _, d := range devices {
			if d.IsAvailable && d.UDID == udid {
				return true
			}
		}
	}
	return false
}
