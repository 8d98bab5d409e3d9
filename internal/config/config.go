// Package config holds the export-run configuration: what the CLI
// collects from flags and an optional YAML file before handing off to
// the export driver.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ProjectPath string  `yaml:"project"`
	OutputPath  string  `yaml:"output"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FPS         float64 `yaml:"fps"`
	Workers     int     `yaml:"workers"` // 0 = auto-size from the machine
	AutoZoom    bool    `yaml:"auto_zoom"`
	ShowStats   bool    `yaml:"show_stats"`
	Verbose     bool    `yaml:"verbose"`
	Quiet       bool    `yaml:"quiet"`
}

// Default returns the configuration used when neither flags nor a
// config file override a field.
func Default() Config {
	return Config{
		Width:  1920,
		Height: 1080,
		FPS:    30,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the export driver cannot run with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid output size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %.2f", c.FPS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	return nil
}
