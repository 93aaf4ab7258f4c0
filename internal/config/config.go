// Run settings: which files to convert and how to schedule the transform
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Settings file looked up in the working directory
const DefaultPath = "grayscale.yml"

const (
	ModeParallel   = "parallel"
	ModeSequential = "sequential"
)

type Config struct {
	Input   string `yaml:"input"`   // Source bitmap
	Output  string `yaml:"output"`  // Destination bitmap
	Mode    string `yaml:"mode"`    // parallel or sequential
	Workers int    `yaml:"workers"` // Goroutines for the parallel mode; 0 = GOMAXPROCS
}

// Returns the built-in settings
func Default() Config {
	return Config{
		Input:  "mars.bmp",
		Output: "grayscale_mars_parallel.bmp",
		Mode:   ModeParallel,
	}
}

// Reads settings from a YAML file on top of the defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration file '%s': %w", path, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input must not be empty")
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	if c.Mode != ModeParallel && c.Mode != ModeSequential {
		return fmt.Errorf("invalid mode %q: mode must be %s or %s", c.Mode, ModeParallel, ModeSequential)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must be 0 or more", c.Workers)
	}
	return nil
}
