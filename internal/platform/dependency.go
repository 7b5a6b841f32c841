package platform

import (
	"fmt"
	"os/exec"
)

// LookPather finds executables. CheckXcrunWith takes one so tests can
// pretend xcrun is installed or missing.
type LookPather interface {
	LookPath(file string) (string, error)
}

type pathLookup struct{}

func (pathLookup) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// DefaultLookPather searches $PATH.
func DefaultLookPather() LookPather {
	return pathLookup{}
}

// CheckXcrun validates that the xcrun executable is available.
func CheckXcrun(xcrun string) error {
	return CheckXcrunWith(DefaultLookPather(), xcrun)
}

// CheckXcrunWith validates xcrun using the given LookPather.
func CheckXcrunWith(lp LookPather, xcrun string) error {
	if xcrun == "" {
		xcrun = "xcrun"
	}
	if _, err := lp.LookPath(xcrun); err != nil {
		return fmt.Errorf("%s not found in PATH. Install Xcode and run: xcode-select --install", xcrun)
	}
	return nil
}
