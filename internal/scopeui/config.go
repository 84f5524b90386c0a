package scopeui

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-reactive/analyzer"
)

// Config is the bandscope configuration file.
type Config struct {
	Sensitivity   float64 `yaml:"sensitivity"`
	Smoothing     float64 `yaml:"smoothing"`
	TransformSize int     `yaml:"transform_size"`
	FPS           int     `yaml:"fps"`
}

// DefaultConfig returns the analyzer defaults plus a 60 fps display
// cadence.
func DefaultConfig() Config {
	cfg := analyzer.DefaultConfig()
	return Config{
		Sensitivity:   cfg.Sensitivity,
		Smoothing:     cfg.Smoothing,
		TransformSize: cfg.TransformSize,
		FPS:           60,
	}
}

// LoadConfig reads a YAML config file, expanding $VAR references from the
// environment. Missing fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.Sensitivity <= 0 {
		c.Sensitivity = d.Sensitivity
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		c.Smoothing = d.Smoothing
	}
	if c.TransformSize <= 0 {
		c.TransformSize = d.TransformSize
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
}
