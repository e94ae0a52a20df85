package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/finfeed-dev/finfeed/internal/dates"
)

// Config represents the top-level finfeed.yaml configuration.
type Config struct {
	Decode DecodeConfig `yaml:"decode"`
	Output OutputConfig `yaml:"output"`
}

// DecodeConfig holds the decode-time defaults applied when the
// caller does not override them on the command line.
type DecodeConfig struct {
	// TimeZone is an IANA zone name, e.g. "America/New_York".
	// "Local" selects the host timezone.
	TimeZone string `yaml:"timezone"`
	// TimeOfDay is the "HH:MM" wall-clock time assumed for bare
	// dates.
	TimeOfDay string `yaml:"time_of_day"`
}

// OutputConfig controls where converted records land.
type OutputConfig struct {
	// Dir receives one records file per converted document; empty
	// means stdout.
	Dir string `yaml:"dir,omitempty"`
	// KeepRejects also writes rejected raw rows next to the records.
	KeepRejects bool `yaml:"keep_rejects"`
}

// Load reads a finfeed.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Decode: DecodeConfig{
			TimeZone:  "Local",
			TimeOfDay: dates.DefaultTimeOfDay,
		},
	}
}

// Location resolves the configured timezone name.
func (c *Config) Location() (*time.Location, error) {
	if c.Decode.TimeZone == "" || c.Decode.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Decode.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("resolving timezone %q: %w", c.Decode.TimeZone, err)
	}
	return loc, nil
}
