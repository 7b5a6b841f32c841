package platform

import (
	"context"
	"strings"
	"sync"
)

// fakeRunner answers Run calls by subcommand and records every invocation.
type fakeRunner struct {
	mu sync.Mutex

	// respond returns the result for a Run call. args excludes the
	// leading "simctl" and any "--set <path>".
	respond func(args []string) (Output, error)

	calls   [][]string
	started []Command
	proc    *fakeProcess
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.respond == nil {
		return Output{}, nil
	}
	return f.respond(simctlSubcommand(args))
}

func (f *fakeRunner) Start(cmd Command) (Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, cmd)
	if f.proc == nil {
		f.proc = newFakeProcess(4242)
	}
	return f.proc, nil
}

func (f *fakeRunner) callCount(sub string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Join(simctlSubcommand(c[1:]), " ") == sub {
			n++
		}
	}
	return n
}

func simctlSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == "simctl" {
		args = args[1:]
	}
	if len(args) > 1 && args[0] == "--set" {
		args = args[2:]
	}
	return args
}

type fakeProcess struct {
	pid  int
	exit chan error
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, exit: make(chan error, 1)}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() error { return <-p.exit }
