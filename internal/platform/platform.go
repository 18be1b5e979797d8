// Package platform wraps OS detection, per-user file locations and a few
// file helpers.
package platform

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the per-user config and data dirs.
const AppName = "audiodeck"

func IsWindows() bool { return runtime.GOOS == "windows" }
func IsMacOS() bool   { return runtime.GOOS == "darwin" }

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpandEnv expands $VAR and ${VAR} references in s. A leading "~/" is
// replaced with the home directory.
func ExpandEnv(s string) string {
	if len(s) >= 2 && s[0] == '~' && (s[1] == '/' || s[1] == '\\') {
		s = filepath.Join(xdg.Home, s[2:])
	}
	return os.ExpandEnv(s)
}

// ConfigDir returns the per-user configuration directory of the application.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DataDir returns the per-user data directory of the application.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
