package platform

import (
	"context"
	"errors"
	"testing"
)

const launchctlFixture = `PID	Status	Label
-	0	com.apple.assertiond
412	0	com.apple.backboardd
1234	0	UIKitApplication:com.example.app[8a3f][rb-legacy]
1300	0	UIKitApplication:com.example.app.widget[91c2][rb-legacy]
-	0	UIKitApplication:com.example.stopped[0000][rb-legacy]
`

func TestParsePid(t *testing.T) {
	tests := []struct {
		name     string
		bundleID string
		want     int
		wantErr  error
	}{
		{"running app", "com.example.app", 1234, nil},
		{"longer bundle id", "com.example.app.widget", 1300, nil},
		{"dots are literal", "com.example.ap.", 0, ErrPidNotFound},
		{"app without pid", "com.example.stopped", 0, ErrPidNotFound},
		{"not running", "com.example.other", 0, ErrPidNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePid(launchctlFixture, tt.bundleID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePid: %v", err)
			}
			if got != tt.want {
				t.Errorf("parsePid = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPidFor(t *testing.T) {
	var spawned []string
	runner := &fakeRunner{respond: func(args []string) (Output, error) {
		spawned = args
		return Output{Stdout: launchctlFixture}, nil
	}}
	s := NewSimctl(WithRunner(runner))

	pid, err := s.PidFor(context.Background(), "UDID-1", "com.example.app")
	if err != nil {
		t.Fatalf("PidFor: %v", err)
	}
	if pid != 1234 {
		t.Errorf("pid = %d, want 1234", pid)
	}
	want := []string{"spawn", "UDID-1", "launchctl", "list"}
	if len(spawned) != len(want) {
		t.Fatalf("args = %v, want %v", spawned, want)
	}
	for i := range want {
		if spawned[i] != want[i] {
			t.Fatalf("args = %v, want %v", spawned, want)
		}
	}
}

func TestPidFor_Errors(t *testing.T) {
	t.Run("empty bundle id", func(t *testing.T) {
		runner := &fakeRunner{}
		if _, err := NewSimctl(WithRunner(runner)).PidFor(context.Background(), "UDID-1", ""); err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(runner.calls) != 0 {
			t.Errorf("simctl should not run, calls = %v", runner.calls)
		}
	})

	t.Run("spawn failure is surfaced", func(t *testing.T) {
		spawnErr := &ExecError{Command: "xcrun simctl spawn", ExitCode: 148, Err: errors.New("exit status 148")}
		runner := &fakeRunner{respond: func(args []string) (Output, error) {
			return Output{}, spawnErr
		}}
		_, err := NewSimctl(WithRunner(runner)).PidFor(context.Background(), "UDID-1", "com.example.app")
		var execErr *ExecError
		if !errors.As(err, &execErr) || execErr.ExitCode != 148 {
			t.Errorf("err = %v, want ExecError with exit 148", err)
		}
	})

	t.Run("not running", func(t *testing.T) {
		runner := &fakeRunner{respond: func(args []string) (Output, error) {
			return Output{Stdout: "PID\tStatus\tLabel\n"}, nil
		}}
		_, err := NewSimctl(WithRunner(runner)).PidFor(context.Background(), "UDID-1", "com.example.app")
		if !errors.Is(err, ErrPidNotFound) {
			t.Errorf("err = %v, want ErrPidNotFound", err)
		}
	})
}
