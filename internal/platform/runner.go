package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Output holds the captured streams of a command that ran to completion.
type Output struct {
	Stdout string
	Stderr string
}

// Command describes a long-running child process whose standard streams are
// wired to caller-owned sinks.
type Command struct {
	Name   string
	Args   []string
	Env    []string // full environment; nil inherits the parent's
	Stdout io.Writer
	Stderr io.Writer
}

// Process is a started Command.
type Process interface {
	Pid() int
	// Wait blocks until the process exits and its streams are drained.
	Wait() error
}

// Runner abstracts process execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
	Start(cmd Command) (Process, error)
}

// ExecError is returned when an external command exits unsuccessfully.
type ExecError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExecRunner runs real commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		execErr := &ExecError{
			Command:  commandLine(name, args),
			ExitCode: -1,
			Stderr:   out.Stderr,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return out, execErr
	}
	return out, nil
}

// Start launches cmd without waiting for it. The child is not bound to any
// context: it runs until it exits on its own.
func (ExecRunner) Start(c Command) (Process, error) {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", commandLine(c.Name, c.Args), err)
	}
	return execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p execProcess) Pid() int    { return p.cmd.Process.Pid }
func (p execProcess) Wait() error { return p.cmd.Wait() }

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
