package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Title  string       `yaml:"title"`
	Screen ScreenConfig `yaml:"screen"`
	Levels LevelsConfig `yaml:"levels"`
	HUD    HUDConfig    `yaml:"hud"`
	Hint   HintConfig   `yaml:"hint"`
	Touch  TouchConfig  `yaml:"touch"`
}

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LevelsConfig struct {
	// Count is the number of level files, 0-based and contiguous.
	Count     int           `yaml:"count"`
	Start     int           `yaml:"start"`
	TimeLimit time.Duration `yaml:"time_limit"`
}

type HUDConfig struct {
	WarningThreshold time.Duration `yaml:"warning_threshold"`
}

type HintConfig struct {
	// IdleDelay is how long the player must stay still before the touch
	// hint starts fading in.
	IdleDelay time.Duration `yaml:"idle_delay"`
	FadeIn    time.Duration `yaml:"fade_in"`
}

type TouchConfig struct {
	// ArrowWidth is the width of each of the left and right arrow strips.
	ArrowWidth float64 `yaml:"arrow_width"`
	// JumpRegionStart is the fraction of the screen width where the jump
	// region begins.
	JumpRegionStart float64 `yaml:"jump_region_start"`
}

// Default returns the embedded configuration.
func Default() Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic("config: embedded default: " + err.Error())
	}
	return cfg
}

// Parse decodes YAML on top of zero values and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path and overlays it on the embedded defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Levels.Count <= 0:
		return fmt.Errorf("%w: levels.count must be positive, got %d", ErrInvalid, c.Levels.Count)
	case c.Levels.Start < 0 || c.Levels.Start >= c.Levels.Count:
		return fmt.Errorf("%w: levels.start %d outside [0, %d)", ErrInvalid, c.Levels.Start, c.Levels.Count)
	case c.Levels.TimeLimit <= 0:
		return fmt.Errorf("%w: levels.time_limit must be positive", ErrInvalid)
	case c.HUD.WarningThreshold < 0:
		return fmt.Errorf("%w: hud.warning_threshold is negative", ErrInvalid)
	case c.Touch.ArrowWidth <= 0 || 2*c.Touch.ArrowWidth > float64(c.Screen.Width):
		return fmt.Errorf("%w: touch.arrow_width %v does not fit the screen", ErrInvalid, c.Touch.ArrowWidth)
	case c.Touch.JumpRegionStart <= 0 || c.Touch.JumpRegionStart >= 1:
		return fmt.Errorf("%w: touch.jump_region_start %v outside (0, 1)", ErrInvalid, c.Touch.JumpRegionStart)
	}
	return nil
}
