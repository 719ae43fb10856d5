// Package config provides configuration loading and management for maskeval.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given
const DefaultPath = "maskeval.yaml"

// Config represents the application configuration loaded from YAML
type Config struct {
	// Mask derivation parameters
	Masks struct {
		// MaxMaskNo is the largest mask id scanned for in a label raster
		MaxMaskNo int `yaml:"maxMaskNo"`

		// Clip, when set, masks every cell above this value
		Clip *float64 `yaml:"clip,omitempty"`
	} `yaml:"masks"`

	// Geometry parameters
	Geometry struct {
		// FrontalThreshold is the smallest height step counted as a facade
		FrontalThreshold float64 `yaml:"frontalThreshold"`
	} `yaml:"geometry"`

	// Output parameters
	Output struct {
		// HistogramFile is where the height histogram table is written
		HistogramFile string `yaml:"histogramFile"`

		// PlotFile is where the mask image is written when plotting is enabled
		PlotFile string `yaml:"plotFile"`

		// PlotWidth is the long side of the mask image in pixels
		PlotWidth int `yaml:"plotWidth"`

		// SaveMask, when non-empty, is the tile path the derived mask is saved to
		SaveMask string `yaml:"saveMask"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Masks.MaxMaskNo = 20

	// Height steps below 4 m are terrain relief, not buildings
	cfg.Geometry.FrontalThreshold = 4.0

	cfg.Output.HistogramFile = "mask_height_histogram.dat"
	cfg.Output.PlotFile = "mask.png"
	cfg.Output.PlotWidth = 1040
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Masks.MaxMaskNo < 1 {
		return errors.Errorf("maxMaskNo must be at least 1, got %d", c.Masks.MaxMaskNo)
	}
	if c.Geometry.FrontalThreshold < 0 {
		return errors.Errorf("frontalThreshold must be non-negative, got %g", c.Geometry.FrontalThreshold)
	}
	if c.Output.HistogramFile == "" {
		return errors.New("histogramFile must not be empty")
	}
	if c.Output.PlotWidth <= 0 {
		return errors.Errorf("plotWidth must be positive, got %d", c.Output.PlotWidth)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", configPath)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "error creating config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "error writing config file")
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
