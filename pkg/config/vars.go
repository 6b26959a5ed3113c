package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "pbdb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/pbdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/pbdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/pbdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// AssetsFilePath returns the full path to the assets.yaml registry.
// Returns ~/.config/pbdb/assets.yaml by default.
func AssetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "assets.yaml")
}
