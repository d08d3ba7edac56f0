package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetConfigDir() string
}

// FileConfig is the optional YAML file layer. Environment variables win over
// file values, file values win over defaults.
type FileConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	API      struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Storage struct {
		Backend     string `yaml:"backend"`
		SessionFile string `yaml:"session_file"`
		BoltPath    string `yaml:"bolt_path"`
		RedisAddr   string `yaml:"redis_addr"`
		RedisPrefix string `yaml:"redis_prefix"`
	} `yaml:"storage"`
}

type mainConfig struct {
	EnvVars
	API
	Storage
}

// New builds the configuration from the environment, reading the YAML file
// named by PORTAL_CONFIG (or config.yaml in the config directory) when it exists.
func New() (Config, error) {
	path := GetEnv(configFileEnvVar, "")
	if path == "" {
		candidate := defaultConfigFile()
		if _, err := os.Stat(candidate); err != nil {
			return FromFile(FileConfig{}), nil
		}
		path = candidate
	}
	return Load(path)
}

// Load reads a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[config.Load] reading %s: %w", path, err)
	}
	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("[config.Load] parsing %s: %w", path, err)
	}
	return FromFile(file), nil
}

// FromFile wraps already decoded file values.
func FromFile(file FileConfig) Config {
	f := &file
	return mainConfig{
		EnvVars: EnvVars{file: f},
		API:     API{file: f},
		Storage: Storage{file: f},
	}
}
