// Package config loads the command line settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/TFMV/echograph3d/physics"
)

// Config holds echograph3d configuration.
type Config struct {
	Log     LogConfig        `toml:"log"`
	Render  RenderConfig     `toml:"render"`
	Loop    LoopConfig       `toml:"loop"`
	Graph   GraphConfig      `toml:"graph"`
	Animate AnimateConfig    `toml:"animate"`
	Physics physics.Settings `toml:"physics"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

// RenderConfig controls the output surface.
type RenderConfig struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Color       bool   `toml:"color"`
	Interactive bool   `toml:"interactive"`
	Palette     string `toml:"palette"` // default, surreal, category
}

// LoopConfig controls the frame loop.
type LoopConfig struct {
	FPS int `toml:"fps"`
	// SettleFrames bounds the steps taken before a snapshot
	SettleFrames int `toml:"settle_frames"`
}

// GraphConfig selects the generated graph when no input file is given.
type GraphConfig struct {
	Shape string `toml:"shape"` // grid, path, complete
	N     int    `toml:"n"`
	M     int    `toml:"m"`
}

// AnimateConfig controls the graph animator of the run command.
type AnimateConfig struct {
	Enabled  bool   `toml:"enabled"`
	Interval string `toml:"interval"`
	MaxNodes int    `toml:"max_nodes"`
	Seed     uint64 `toml:"seed"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Render:  RenderConfig{Width: 80, Height: 24, Color: true, Palette: "default"},
		Loop:    LoopConfig{FPS: 30, SettleFrames: 1000},
		Graph:   GraphConfig{Shape: "grid", N: 10, M: 10},
		Animate: AnimateConfig{Enabled: false, Interval: "500ms", MaxNodes: 60, Seed: 1},
		Physics: physics.DefaultSettings(),
	}
}

// Load reads a config file over the defaults. An empty path or a missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks the values the commands cannot fall back from
func (c *Config) Validate() error {
	if c.Render.Width < 3 || c.Render.Height < 3 {
		return fmt.Errorf("render size %dx%d is too small", c.Render.Width, c.Render.Height)
	}
	if c.Loop.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Loop.FPS)
	}
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	return nil
}
