// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig        `yaml:"simulation"`
	Herbivore  traits.Params           `yaml:"herbivore"`
	Carnivore  traits.Params           `yaml:"carnivore"`
	Landscape  systems.LandscapeParams `yaml:"landscape"`
	Telemetry  TelemetryConfig         `yaml:"telemetry"`
	Bookmarks  BookmarksConfig         `yaml:"bookmarks"`
	IslandGen  systems.GenConfig       `yaml:"islandgen"`
}

// SimulationConfig holds run settings.
type SimulationConfig struct {
	Seed           uint64 `yaml:"seed"`
	Years          int    `yaml:"years"`
	Map            string `yaml:"map"`             // Island map text
	PopulationFile string `yaml:"population_file"` // Optional YAML stocking file
	LogEvery       int    `yaml:"log_every"`       // Years between stats log lines (0 = never)
}

// TelemetryConfig holds output settings.
type TelemetryConfig struct {
	OutputDir         string `yaml:"output_dir"`         // Empty disables file output
	Distribution      bool   `yaml:"distribution"`       // Write distribution.csv
	DistributionEvery int    `yaml:"distribution_every"` // Years between distribution snapshots
	PerfWindow        int    `yaml:"perf_window"`        // Cycles averaged per perf sample
	PerfEvery         int    `yaml:"perf_every"`         // Years between perf.csv rows (0 = never)
	BookmarkHistory   int    `yaml:"bookmark_history"`   // Years of history for bookmark detection
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	CrashFraction  float64 `yaml:"crash_fraction"`
	RecoveryFactor int     `yaml:"recovery_factor"`
	StableYears    int     `yaml:"stable_years"`
}

// Table returns a copy of the species parameters as a traits table.
func (c *Config) Table() *traits.Table {
	return &traits.Table{Herbivore: c.Herbivore, Carnivore: c.Carnivore}
}

// Validate checks parameters through the same rules used by the runtime setters.
func (c *Config) Validate() error {
	if err := c.Herbivore.Validate(components.Herbivore); err != nil {
		return fmt.Errorf("herbivore: %w", err)
	}
	if err := c.Carnivore.Validate(components.Carnivore); err != nil {
		return fmt.Errorf("carnivore: %w", err)
	}
	if err := c.Landscape.Validate(); err != nil {
		return fmt.Errorf("landscape: %w", err)
	}
	if c.Simulation.Years < 0 {
		return fmt.Errorf("simulation: years %d must not be negative", c.Simulation.Years)
	}
	return nil
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values that have no meaningful zero setting.
func (c *Config) applyDefaults() {
	if c.Telemetry.DistributionEvery < 1 {
		c.Telemetry.DistributionEvery = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 10
	}
	if c.Telemetry.BookmarkHistory < 5 {
		c.Telemetry.BookmarkHistory = 5
	}
	if c.IslandGen.Seed == 0 {
		c.IslandGen.Seed = int64(c.Simulation.Seed)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
