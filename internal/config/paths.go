package config

import (
	"os"
	"path/filepath"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.tasksage).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tasksage"), nil
}

// GlobalConfigFile returns ~/.tasksage/config.yaml.
func GlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+".yaml"), nil
}

// GetCrashLogDir returns the directory crash reports are written to.
// Resolution order: XDG_STATE_HOME/tasksage/crash_logs, then ~/.tasksage/crash_logs.
func GetCrashLogDir() (string, error) {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "tasksage", "crash_logs"), nil
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "crash_logs"), nil
}
