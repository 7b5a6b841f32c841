package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// BundleInfo is the subset of an app's Info.plist used to install and launch it.
type BundleInfo struct {
	BundleID string `plist:"CFBundleIdentifier" json:"bundleId" yaml:"bundleId"`
	Name     string `plist:"CFBundleName" json:"name,omitempty" yaml:"name,omitempty"`
	Version  string `plist:"CFBundleShortVersionString" json:"version,omitempty" yaml:"version,omitempty"`
	Build    string `plist:"CFBundleVersion" json:"build,omitempty" yaml:"build,omitempty"`
}

// ReadBundleInfo reads Info.plist (XML or binary) from an .app bundle.
func ReadBundleInfo(appPath string) (BundleInfo, error) {
	data, err := os.ReadFile(filepath.Join(appPath, "Info.plist"))
	if err != nil {
		return BundleInfo{}, fmt.Errorf("reading Info.plist: %w", err)
	}
	var info BundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return BundleInfo{}, fmt.Errorf("decoding Info.plist: %w", err)
	}
	if info.BundleID == "" {
		return BundleInfo{}, fmt.Errorf("%s has no CFBundleIdentifier", appPath)
	}
	return info, nil
}

// IsAppBundle reports whether ref names an .app directory rather than a bundle id.
func IsAppBundle(ref string) bool {
	if !strings.HasSuffix(strings.TrimSuffix(ref, "/"), ".app") {
		return false
	}
	st, err := os.Stat(ref)
	return err == nil && st.IsDir()
}
