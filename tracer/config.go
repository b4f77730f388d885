package tracer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk, YAML-backed counterpart to Tracer's Options,
// following info.Config/info.DefaultConfig's plain-struct shape (promoted
// here to YAML since cmd/pytracer needs to load it from a file path rather
// than construct it in Go).
type Config struct {
	MaxSteps   int    `yaml:"maxSteps"`
	ServerMode bool   `yaml:"serverMode"`
	Validate   bool   `yaml:"validate"`
	LogLevel   string `yaml:"logLevel"`
	LogJSON    bool   `yaml:"logJSON"`
}

// DefaultConfig mirrors info.DefaultConfig: a conservative, always-safe
// baseline rather than every feature left on.
func DefaultConfig() *Config {
	return &Config{
		MaxSteps:   100000,
		ServerMode: false,
		Validate:   true,
		LogLevel:   "info",
		LogJSON:    false,
	}
}

// LoadConfig reads and parses a YAML config file, applying DefaultConfig's
// values for anything the file doesn't specify.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
