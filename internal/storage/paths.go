package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

// PathManager handles cross-platform path resolution for rafiq state
type PathManager struct {
	homeDir  string
	rafiqDir string
}

// NewPathManager creates a new path manager with platform-aware defaults
func NewPathManager() *PathManager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir is not available
		homeDir = "."
	}

	return &PathManager{
		homeDir:  homeDir,
		rafiqDir: filepath.Join(homeDir, ".rafiq"),
	}
}

// NewPathManagerAt roots all paths under dir instead of the home directory.
func NewPathManagerAt(dir string) *PathManager {
	return &PathManager{homeDir: dir, rafiqDir: dir}
}

// Dir returns the main rafiq directory, creating it if it doesn't exist
func (pm *PathManager) Dir() (string, error) {
	if err := os.MkdirAll(pm.rafiqDir, 0755); err != nil {
		return "", err
	}
	return pm.rafiqDir, nil
}

// StateDatabasePath returns the path for the client state database
func (pm *PathManager) StateDatabasePath() (string, error) {
	dir, err := pm.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// ConfigPath returns the path for the main configuration file
func (pm *PathManager) ConfigPath() (string, error) {
	dir, err := pm.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogsDir returns the directory for log files
func (pm *PathManager) LogsDir() (string, error) {
	dir, err := pm.Dir()
	if err != nil {
		return "", err
	}
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", err
	}
	return logsDir, nil
}

// PlatformInfo returns platform-specific information
func (pm *PathManager) PlatformInfo() map[string]string {
	return map[string]string{
		"os":        runtime.GOOS,
		"arch":      runtime.GOARCH,
		"home_dir":  pm.homeDir,
		"rafiq_dir": pm.rafiqDir,
	}
}
