// Package config resolves devrig configuration: the global config
// directory, TOML config files, and tool overrides.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the devrig configuration directory.
//
// Resolution:
//   - $DEVRIG_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/devrig if set (respects XDG on any platform)
//   - %AppData%/devrig on Windows
//   - ~/.config/devrig on macOS and Linux
func Dir() string {
	if dir := os.Getenv("DEVRIG_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "devrig")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "devrig")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "devrig")
}

// GlobalFile returns the path of the global config file, or "" when no
// config directory can be determined.
func GlobalFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}
