package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "polyprompt"

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/polyprompt
// Windows: C:\Users\username\.config\polyprompt
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", appName)
}

// GetDefaultDataDir returns the platform-specific default data directory
// Linux/Mac: ~/.local/share/polyprompt
// Windows: C:\Users\username\AppData\Local\polyprompt
func GetDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(GetHomeDir(), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName)
	}
	return filepath.Join(GetHomeDir(), ".local", "share", appName)
}

// GetSettingsFilePath returns the path to settings.toml. POLYPROMPT_CONFIG
// overrides the default location.
func GetSettingsFilePath() string {
	if p := os.Getenv("POLYPROMPT_CONFIG"); p != "" {
		return ExpandPath(p)
	}
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// GetHomeDir returns the user's home directory across platforms
func GetHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
		if home == "" {
			home = "C:\\"
		}
		return home
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = "/"
	}
	return home
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(GetHomeDir(), path[2:])
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates a directory if it doesn't exist (0700 - user-only access)
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
