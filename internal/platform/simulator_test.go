package platform

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestResolveSimulator(t *testing.T) {
	tests := []struct {
		name   string
		flag   string
		stored string
		want   string
	}{
		{"flag wins", "ABCD-1234", "STORED-1", "ABCD-1234"},
		{"stored default when flag is empty", "", "STORED-1", "STORED-1"},
		{"booted when nothing is set", "", "", "booted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSimulator(tt.flag, tt.stored); got != tt.want {
				t.Errorf("ResolveSimulator(%q, %q) = %q, want %q", tt.flag, tt.stored, got, tt.want)
			}
		})
	}
}

func TestDefaultDeviceSetPath(t *testing.T) {
	path, err := DefaultDeviceSetPath()
	if err != nil {
		t.Fatalf("DefaultDeviceSetPath: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}
	want := filepath.Join(home, "Library", "Developer", "CoreSimulator", "Devices")
	if path != want {
		t.Errorf("DefaultDeviceSetPath() = %q, want %q", path, want)
	}
}

func TestSimctlArgs(t *testing.T) {
	t.Run("default device set", func(t *testing.T) {
		s := NewSimctl()
		got := s.args("list", "--json")
		want := []string{"simctl", "list", "--json"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("args = %v, want %v", got, want)
		}
	})

	t.Run("custom device set goes after simctl", func(t *testing.T) {
		s := NewSimctl(WithDeviceSet("/tmp/devices"))
		got := s.args("boot", "UDID-1")
		want := []string{"simctl", "--set", "/tmp/devices", "boot", "UDID-1"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("args = %v, want %v", got, want)
		}
		if s.DeviceSetPath() != "/tmp/devices" {
			t.Errorf("DeviceSetPath() = %q", s.DeviceSetPath())
		}
	})
}

func TestNewSimctl_Options(t *testing.T) {
	s := NewSimctl()
	if s.xcrun != "xcrun" {
		t.Errorf("xcrun = %q, want xcrun", s.xcrun)
	}
	if s.pollInterval != 500*time.Millisecond || s.launchTimeout != 10*time.Second {
		t.Errorf("defaults = %v/%v, want 500ms/10s", s.pollInterval, s.launchTimeout)
	}

	s = NewSimctl(WithXcrun(""), WithPollInterval(0), WithLaunchTimeout(-time.Second))
	if s.xcrun != "xcrun" || s.pollInterval != defaultPollInterval || s.launchTimeout != defaultLaunchTimeout {
		t.Errorf("zero options should keep defaults, got %q %v %v", s.xcrun, s.pollInterval, s.launchTimeout)
	}

	s = NewSimctl(WithXcrun("/usr/bin/xcrun"), WithPollInterval(time.Millisecond), WithLaunchTimeout(time.Second))
	if s.xcrun != "/usr/bin/xcrun" || s.pollInterval != time.Millisecond || s.launchTimeout != time.Second {
		t.Errorf("options not applied: %q %v %v", s.xcrun, s.pollInterval, s.launchTimeout)
	}
}

func TestSimctlRun_UsesXcrunAndDeviceSet(t *testing.T) {
	runner := &fakeRunner{}
	s := NewSimctl(WithRunner(runner), WithXcrun("/usr/bin/xcrun"), WithDeviceSet("/sets/a"))

	if err := s.Boot(context.Background(), "UDID-1"); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	want := []string{"/usr/bin/xcrun", "simctl", "--set", "/sets/a", "bootstatus", "UDID-1", "-b"}
	if len(runner.calls) != 1 || !reflect.DeepEqual(runner.calls[0], want) {
		t.Errorf("calls = %v, want [%v]", runner.calls, want)
	}
}
