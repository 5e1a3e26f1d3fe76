// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Fuxill/WinCamStreamIOS/pkg/driver"
	"github.com/Fuxill/WinCamStreamIOS/pkg/stages/accel"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for llplay.
type Config struct {
	// Input
	URL        string `yaml:"url"`
	ProbeBytes int    `yaml:"probe_bytes"`

	// Decoding
	Acceleration string `yaml:"acceleration"` // "hardware" or "software"

	// Presentation
	FPS           float64 `yaml:"fps"` // 0 presents as fast as pictures arrive
	DropWhenAhead bool    `yaml:"drop_when_ahead"`
	IdleBackoffMs int     `yaml:"idle_backoff_ms"`
	WindowTitle   string  `yaml:"window_title"`
	WindowWidth   int     `yaml:"window_width"`
	WindowHeight  int     `yaml:"window_height"`

	// Logging
	LogLevel string `yaml:"log_level"`
	Quiet    bool   `yaml:"quiet"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		URL:        "tcp://127.0.0.1:5000",
		ProbeBytes: 131072,

		Acceleration: "hardware",

		FPS:           0,
		DropWhenAhead: true,
		IdleBackoffMs: 1,
		WindowTitle:   "llplay",
		WindowWidth:   1920,
		WindowHeight:  1080,

		LogLevel: "info",

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects option combinations the pipeline cannot honor.
func (c Config) Validate() error {
	switch c.Acceleration {
	case "hardware", "software":
	default:
		return fmt.Errorf("unknown acceleration mode %q (want hardware or software)", c.Acceleration)
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %g", c.FPS)
	}
	if c.ProbeBytes <= 0 {
		return fmt.Errorf("probe_bytes must be positive, got %d", c.ProbeBytes)
	}
	if c.IdleBackoffMs <= 0 {
		return fmt.Errorf("idle_backoff_ms must be positive, got %d", c.IdleBackoffMs)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// ToDriverConfig converts Config to driver.Config.
func (c Config) ToDriverConfig() driver.Config {
	pref := accel.PreferHardware
	if c.Acceleration == "software" {
		pref = accel.SoftwareOnly
	}
	return driver.Config{
		Preference:     pref,
		TargetFPS:      c.FPS,
		DropWhenAhead:  c.DropWhenAhead,
		IdleBackoff:    time.Duration(c.IdleBackoffMs) * time.Millisecond,
		FallbackWidth:  c.WindowWidth,
		FallbackHeight: c.WindowHeight,
	}
}
