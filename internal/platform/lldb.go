package platform

import (
	"context"
	"fmt"
	"strconv"
)

// DetachDebugger attaches lldb in batch mode to an app launched with
// --wait-for-debugger and detaches again, which lets the app continue.
// Returns lldb's output.
func DetachDebugger(ctx context.Context, pid int) (string, error) {
	return detachDebugger(ctx, ExecRunner{}, pid)
}

func detachDebugger(ctx context.Context, r Runner, pid int) (string, error) {
	out, err := r.Run(ctx, "lldb", lldbDetachArgs(pid)...)
	if err != nil {
		return out.Stdout, fmt.Errorf("lldb detach from %d: %w", pid, err)
	}
	return out.Stdout, nil
}

func lldbDetachArgs(pid int) []string {
	return []string{"-p", strconv.Itoa(pid), "--batch", "-o", "process detach", "-o", "quit"}
}
