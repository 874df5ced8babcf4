package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 400
	DefaultHeight     = 400
	DefaultFPS        = 60
	DefaultDotCount   = 100
	DefaultSpeed      = 50
	DefaultCoherence  = 50
	DefaultDirection  = 90.0
	DefaultFixationMs = 3000
	DefaultStimulusMs = 2000

	MaxSpeed     = 100
	MaxCoherence = 100
	MaxDotCount  = 5000
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	FPS       int     `yaml:"fps"`
	Seed      int64   `yaml:"seed"`
	DotCount  int     `yaml:"dot_count"`
	Speed     int     `yaml:"speed"`
	Coherence int     `yaml:"coherence"`
	Direction float64 `yaml:"direction"`
	Trial     Trial   `yaml:"trial"`
}

type Trial struct {
	FixationMs int `yaml:"fixation_ms"`
	StimulusMs int `yaml:"stimulus_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		FPS:       DefaultFPS,
		DotCount:  DefaultDotCount,
		Speed:     DefaultSpeed,
		Coherence: DefaultCoherence,
		Direction: DefaultDirection,
		Trial: Trial{
			FixationMs: DefaultFixationMs,
			StimulusMs: DefaultStimulusMs,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys absent from the
// file keep base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges enforced by the input controls.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: surface %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	case c.DotCount < 0 || c.DotCount > MaxDotCount:
		return fmt.Errorf("%w: dot_count %d outside [0, %d]", ErrInvalidConfig, c.DotCount, MaxDotCount)
	case c.Speed < 0 || c.Speed > MaxSpeed:
		return fmt.Errorf("%w: speed %d outside [0, %d]", ErrInvalidConfig, c.Speed, MaxSpeed)
	case c.Coherence < 0 || c.Coherence > MaxCoherence:
		return fmt.Errorf("%w: coherence %d outside [0, %d]", ErrInvalidConfig, c.Coherence, MaxCoherence)
	case c.Trial.FixationMs <= 0 || c.Trial.StimulusMs <= 0:
		return fmt.Errorf("%w: trial durations must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) FixationDuration() time.Duration {
	return time.Duration(c.Trial.FixationMs) * time.Millisecond
}

func (c *Config) StimulusDuration() time.Duration {
	return time.Duration(c.Trial.StimulusMs) * time.Millisecond
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
