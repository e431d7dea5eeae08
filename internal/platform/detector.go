// Package platform detects where the reverse proxy keeps its site
// directories on the current OS.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds the site store directories in use on this host.
type Paths struct {
	Available string
	Enabled   string
}

// DetectPaths returns the site store directories for the current platform.
// The Debian layout is the baseline; on a Linux host without an existing
// nginx tree the Debian paths are still returned, since the reconciler
// creates them on first use.
func DetectPaths() (Paths, error) {
	switch runtime.GOOS {
	case "linux":
		return detectLinuxPaths(), nil
	case "darwin":
		return detectDarwinPaths()
	default:
		return Paths{}, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func detectLinuxPaths() Paths {
	return Paths{
		Available: "/etc/nginx/sites-available",
		Enabled:   "/etc/nginx/sites-enabled",
	}
}

// detectDarwinPaths locates the Homebrew nginx prefix. The available and
// enabled directories live alongside Homebrew's servers include dir so the
// symlink layout matches Linux.
func detectDarwinPaths() (Paths, error) {
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if pathExists(filepath.Join(prefix, "etc", "nginx")) {
			return Paths{
				Available: filepath.Join(prefix, "etc", "nginx", "sites-available"),
				Enabled:   filepath.Join(prefix, "etc", "nginx", "sites-enabled"),
			}, nil
		}
	}
	return Paths{}, fmt.Errorf("homebrew nginx not found (checked /opt/homebrew and /usr/local)")
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
