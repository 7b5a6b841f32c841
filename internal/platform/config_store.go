package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State is what simdrive remembers between invocations.
type State struct {
	DefaultSimulator string      `json:"defaultSimulator,omitempty"`
	LastLaunch       *LaunchInfo `json:"lastLaunch,omitempty"`
}

// LaunchInfo records the most recent successful launch.
type LaunchInfo struct {
	UDID       string    `json:"udid"`
	BundleID   string    `json:"bundleId"`
	PID        int       `json:"pid"`
	LaunchedAt time.Time `json:"launchedAt"`
}

// ConfigStore reads and writes the state file.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a ConfigStore at ~/Library/Developer/simdrive/state.json.
func NewConfigStore() (*ConfigStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return &ConfigStore{path: filepath.Join(home, "Library", "Developer", "simdrive", "state.json")}, nil
}

// NewConfigStoreWithPath creates a ConfigStore with a custom path.
func NewConfigStoreWithPath(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

// Load returns the stored state, or an empty State if there is none yet.
func (s *ConfigStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("reading state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parsing state: %w", err)
	}
	return st, nil
}

// Save writes st through a temp file and rename so readers never see a partial file.
func (s *ConfigStore) Save(st State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for directories.
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".state-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming state file: %w", err)
	}
	return nil
}

func (s *ConfigStore) update(fn func(*State)) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	fn(&st)
	return s.Save(st)
}

// GetDefault returns the default simulator UDID, or "" if not set.
func (s *ConfigStore) GetDefault() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	return st.DefaultSimulator, nil
}

// SetDefault sets the default simulator UDID.
func (s *ConfigStore) SetDefault(udid string) error {
	return s.update(func(st *State) { st.DefaultSimulator = udid })
}

// ClearDefault removes the default simulator setting.
func (s *ConfigStore) ClearDefault() error {
	return s.update(func(st *State) { st.DefaultSimulator = "" })
}

// RecordLaunch remembers info as the last launch.
func (s *ConfigStore) RecordLaunch(info LaunchInfo) error {
	return s.update(func(st *State) { st.LastLaunch = &info })
}
