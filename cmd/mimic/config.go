package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the mimic configuration file (~/.config/mimic/config.yaml).
// Fields are pointers where "not set" must be distinguishable from zero.
type Config struct {
	Patterns []string `yaml:"patterns"`
	Force    *bool    `yaml:"force"`
	Seed     *int64   `yaml:"seed"`

	Temperature *float64 `yaml:"temperature"`
	Steps       *int64   `yaml:"steps"`

	ServerAddress string `yaml:"server_address"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mimic", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't
// exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyEngineConfig applies config file defaults to the shared engine flags
// when the corresponding CLI flag was not explicitly set.
func applyEngineConfig(c *cli.Command, cfg Config) {
	if len(cfg.Patterns) > 0 && !c.IsSet("pattern") {
		patterns = cfg.Patterns
	}
	if cfg.Force != nil && !c.IsSet("force") {
		force = *cfg.Force
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		seed = *cfg.Seed
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
