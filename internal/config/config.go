// Package config loads the optional Skopa configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls a run. Every field has a usable default; a config file
// only overrides what it names.
type Config struct {
	Version         string   `yaml:"version"`
	Output          string   `yaml:"output,omitempty"`
	ReferenceRegion string   `yaml:"reference_region,omitempty"`
	Regions         []string `yaml:"regions,omitempty"`
	Workers         int      `yaml:"workers,omitempty"`
	Services        Services `yaml:"services,omitempty"`
}

// Services toggles the collected resource kinds.
type Services struct {
	EC2        bool `yaml:"ec2"`
	RDS        bool `yaml:"rds"`
	OpenSearch bool `yaml:"opensearch"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version:         "1",
		Output:          "aws_resources_all_regions.xlsx",
		ReferenceRegion: "us-east-1",
		Workers:         1,
		Services:        Services{EC2: true, RDS: true, OpenSearch: true},
	}
}

// Load reads a config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate ensures config has usable values.
func (c *Config) Validate() error {
	if c.ReferenceRegion == "" {
		return fmt.Errorf("reference_region is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if !c.Services.EC2 && !c.Services.RDS && !c.Services.OpenSearch {
		return fmt.Errorf("at least one service must be enabled")
	}
	return nil
}
