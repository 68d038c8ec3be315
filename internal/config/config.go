package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/units"
)

const (
	DefaultDataDir        = ".orbitsim"
	DefaultLogLevel       = "info"
	DefaultSteps          = 24 * 365
	DefaultSampleEvery    = 24
	DefaultFPS            = 30
	DefaultTicksPerFrame  = 24
	DefaultAddr           = ":8080"
	DefaultTickRate       = 240.0
	DefaultBroadcastEvery = 8
)

type Config struct {
	DataDir       string          `yaml:"data_dir"`
	LogLevel      string          `yaml:"log_level"`
	Steps         int             `yaml:"steps"`
	SampleEvery   int             `yaml:"sample_every"`
	FPS           int             `yaml:"fps"`
	TicksPerFrame int             `yaml:"ticks_per_frame"`
	Serve         ServeConfig     `yaml:"serve"`
	Constants     ConstantsConfig `yaml:"constants"`
}

type ServeConfig struct {
	Addr           string  `yaml:"addr"`
	TickRate       float64 `yaml:"tick_rate"`
	BroadcastEvery int     `yaml:"broadcast_every"`
}

// ConstantsConfig overrides physical constants. Zero keeps the SI value.
type ConstantsConfig struct {
	G float64 `yaml:"g"`
	C float64 `yaml:"c"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:       DefaultDataDir,
		LogLevel:      DefaultLogLevel,
		Steps:         DefaultSteps,
		SampleEvery:   DefaultSampleEvery,
		FPS:           DefaultFPS,
		TicksPerFrame: DefaultTicksPerFrame,
		Serve: ServeConfig{
			Addr:           DefaultAddr,
			TickRate:       DefaultTickRate,
			BroadcastEvery: DefaultBroadcastEvery,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Steps < 0:
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	case c.SampleEvery <= 0:
		return fmt.Errorf("sample_every must be positive, got %d", c.SampleEvery)
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.TicksPerFrame <= 0:
		return fmt.Errorf("ticks_per_frame must be positive, got %d", c.TicksPerFrame)
	case c.Serve.TickRate <= 0:
		return fmt.Errorf("serve.tick_rate must be positive, got %g", c.Serve.TickRate)
	case c.Serve.BroadcastEvery <= 0:
		return fmt.Errorf("serve.broadcast_every must be positive, got %d", c.Serve.BroadcastEvery)
	case c.Constants.G < 0 || c.Constants.C < 0:
		return fmt.Errorf("constants must not be negative")
	}
	return nil
}

// PhysicalConstants returns the SI table with the configured overrides.
func (c *Config) PhysicalConstants() *units.Constants {
	return units.Default().WithOverrides(units.Overrides{G: c.Constants.G, C: c.Constants.C})
}
