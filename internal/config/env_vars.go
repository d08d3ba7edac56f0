package config

import (
	"os"
	"path/filepath"
)

const (
	configFileEnvVar = "PORTAL_CONFIG"
	appNameVar       = "APP_NAME"
	envVar           = "ENV"
	logLevelVar      = "LOG_LEVEL"
	configDirVar     = "PORTAL_CONFIG_DIR"
)

type EnvVars struct {
	file *FileConfig
}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Portal Berita")
}

func (e EnvVars) GetEnv() string {
	return GetEnv(envVar, fileValue(e.file, func(f *FileConfig) string { return f.Env }, "DEV"))
}

func (e EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, fileValue(e.file, func(f *FileConfig) string { return f.LogLevel }, "info"))
}

// GetConfigDir returns the directory holding portal's persisted client state,
// $XDG_CONFIG_HOME/portal or ~/.config/portal.
func (EnvVars) GetConfigDir() string {
	if dir := os.Getenv(configDirVar); dir != "" {
		return dir
	}
	return defaultConfigDir()
}

func defaultConfigDir() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "portal")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "portal")
}

func defaultConfigFile() string {
	return filepath.Join(EnvVars{}.GetConfigDir(), "config.yaml")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func fileValue(file *FileConfig, get func(*FileConfig) string, defaultValue string) string {
	if file == nil {
		return defaultValue
	}
	if v := get(file); v != "" {
		return v
	}
	return defaultValue
}
