package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ising/internal/lattice"
)

const (
	DefaultSize         = 50
	DefaultTemperature  = 2.0
	DefaultCoupling     = 1.0
	DefaultSteps        = 250000
	DefaultStepsPerTick = 100
	DefaultInit         = "random"
	DefaultHistoryMode  = "all"

	MinStepsPerTick = 1
	MaxStepsPerTick = 500
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Size         int           `yaml:"size" validate:"gt=0,lte=4096"`
	Temperature  float64       `yaml:"temperature" validate:"gt=0"`
	Coupling     float64       `yaml:"coupling"`
	Steps        int           `yaml:"steps" validate:"gt=0"`
	StepsPerTick int           `yaml:"steps_per_tick" validate:"gte=1,lte=500"`
	Seed         int64         `yaml:"seed"`
	Init         string        `yaml:"init" validate:"oneof=random up down"`
	Discard      int           `yaml:"discard" validate:"gte=0"`
	History      HistoryConfig `yaml:"history"`
}

type HistoryConfig struct {
	Mode   string `yaml:"mode" json:"mode" validate:"oneof=all window stride"`
	Window int    `yaml:"window" json:"window" validate:"gte=0"`
	Stride int    `yaml:"stride" json:"stride" validate:"gte=0"`
}

var validate = validator.New()

func DefaultConfig() *Config {
	return &Config{
		Size:         DefaultSize,
		Temperature:  DefaultTemperature,
		Coupling:     DefaultCoupling,
		Steps:        DefaultSteps,
		StepsPerTick: DefaultStepsPerTick,
		Init:         DefaultInit,
		History: HistoryConfig{
			Mode: DefaultHistoryMode,
		},
	}
}

// Validate checks field ranges and the history mode/parameter pairing.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.History.Mode {
	case "window":
		if c.History.Window <= 0 {
			return fmt.Errorf("%w: history window must be positive in window mode", ErrInvalid)
		}
	case "stride":
		if c.History.Stride <= 0 {
			return fmt.Errorf("%w: history stride must be positive in stride mode", ErrInvalid)
		}
	}
	if c.Discard >= c.Steps {
		return fmt.Errorf("%w: discard (%d) must be below steps (%d)", ErrInvalid, c.Discard, c.Steps)
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

func (c *Config) HistoryPolicy() lattice.HistoryPolicy {
	switch c.History.Mode {
	case "window":
		return lattice.HistoryWindow(c.History.Window)
	case "stride":
		return lattice.HistoryStride(c.History.Stride)
	default:
		return lattice.HistoryUnbounded()
	}
}

// LatticeOptions translates the config into construction options. A zero
// seed leaves the lattice to seed itself from the clock.
func (c *Config) LatticeOptions() ([]lattice.Option, error) {
	mode, err := lattice.ParseInitMode(c.Init)
	if err != nil {
		return nil, err
	}
	opts := []lattice.Option{
		lattice.WithInit(mode),
		lattice.WithHistory(c.HistoryPolicy()),
	}
	if c.Seed != 0 {
		opts = append(opts, lattice.WithSeed(c.Seed))
	}
	return opts, nil
}

// NewLattice validates the config and builds a lattice from it.
func (c *Config) NewLattice(extra ...lattice.Option) (*lattice.Lattice, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.LatticeOptions()
	if err != nil {
		return nil, err
	}
	return lattice.New(c.Size, c.Temperature, c.Coupling, append(opts, extra...)...)
}

// Sites is the number of spins, Size².
func (c *Config) Sites() int { return c.Size * c.Size }
