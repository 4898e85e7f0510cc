package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Animation struct {
	TickMs       int `yaml:"tick_ms"`
	IdleMs       int `yaml:"idle_ms"`
	TransitionMs int `yaml:"transition_ms"`
	VelocityX    int `yaml:"velocity_x"`
	VelocityY    int `yaml:"velocity_y"`
}

func (a Animation) Tick() time.Duration { return time.Duration(a.TickMs) * time.Millisecond }
func (a Animation) Idle() time.Duration { return time.Duration(a.IdleMs) * time.Millisecond }
func (a Animation) Transition() time.Duration {
	return time.Duration(a.TransitionMs) * time.Millisecond
}

type SSD1306 struct {
	Interface string `yaml:"interface"` // "i2c" | "spi"
	Bus       string `yaml:"bus"`       // i2c bus name, "" = first
	SpeedKHz  int    `yaml:"speed_khz"`
	SPIDev    string `yaml:"spi_dev"` // e.g. /dev/spidev0.0, "" = first
	DCPin     string `yaml:"dc_pin"`  // e.g. GPIO25
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Rotated   bool   `yaml:"rotated"`
}

type Matrix struct {
	SPIDev     string `yaml:"spi_dev"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Serpentine bool   `yaml:"serpentine"`
	Brightness uint8  `yaml:"brightness"` // 0..255, capped by the driver
	FreqKHz    int    `yaml:"freq_khz"`
}

type Term struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Fit    bool `yaml:"fit"` // size to the terminal instead of Width/Height
}

type Tap struct {
	Pin        string `yaml:"pin"` // e.g. GPIO17, "" = disabled
	DebounceMs int    `yaml:"debounce_ms"`
	ActiveHigh bool   `yaml:"active_high"`
}

type Config struct {
	Driver     string `yaml:"driver"` // "ssd1306" | "matrix" | "term" | "sim"
	Clock      string `yaml:"clock"`  // "24h" | "12h"
	Font       string `yaml:"font"`
	Scale      int    `yaml:"scale"`
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Invert     bool   `yaml:"invert"`
	LogLevel   string `yaml:"log_level"`

	Animation Animation `yaml:"animation"`
	SSD1306   SSD1306   `yaml:"ssd1306"`
	Matrix    Matrix    `yaml:"matrix"`
	Term      Term      `yaml:"term"`
	Tap       Tap       `yaml:"tap"`
}

// Default matches a 128x64 SSD1306 and the stock animation timings.
func Default() *Config {
	return &Config{
		Driver:     "sim",
		Clock:      "24h",
		Font:       "basic7x13",
		Scale:      2,
		Foreground: "#FFFFFF",
		Background: "#000000",
		LogLevel:   "info",
		Animation: Animation{
			TickMs:       50,
			IdleMs:       5000,
			TransitionMs: 2000,
			VelocityX:    2,
			VelocityY:    2,
		},
		SSD1306: SSD1306{
			Interface: "i2c",
			SpeedKHz:  400,
			DCPin:     "GPIO25",
			Width:     128,
			Height:    64,
		},
		Matrix: Matrix{
			Width:      64,
			Height:     16,
			Serpentine: true,
			Brightness: 64,
			FreqKHz:    2500,
		},
		Term: Term{Width: 128, Height: 64},
		Tap:  Tap{DebounceMs: 250},
	}
}

// Load reads path over the defaults; keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Driver {
	case "ssd1306", "matrix", "term", "sim":
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}
	switch c.Clock {
	case "24h", "12h":
	default:
		errs = append(errs, fmt.Errorf("clock must be 24h or 12h, got %q", c.Clock))
	}
	if c.Scale < 1 {
		errs = append(errs, fmt.Errorf("scale must be >= 1, got %d", c.Scale))
	}
	a := c.Animation
	if a.TickMs <= 0 {
		errs = append(errs, fmt.Errorf("animation.tick_ms must be > 0, got %d", a.TickMs))
	}
	if a.IdleMs < 0 || a.TransitionMs < 0 {
		errs = append(errs, errors.New("animation idle/transition must not be negative"))
	}
	if a.VelocityX == 0 || a.VelocityY == 0 {
		errs = append(errs, errors.New("animation velocity components must be non-zero"))
	}
	if c.SSD1306.Interface != "i2c" && c.SSD1306.Interface != "spi" {
		errs = append(errs, fmt.Errorf("ssd1306.interface must be i2c or spi, got %q", c.SSD1306.Interface))
	}
	if c.SSD1306.Width <= 0 || c.SSD1306.Height <= 0 {
		errs = append(errs, errors.New("ssd1306 dimensions must be positive"))
	}
	if c.Matrix.Width <= 0 || c.Matrix.Height <= 0 {
		errs = append(errs, errors.New("matrix dimensions must be positive"))
	}
	if !c.Term.Fit && (c.Term.Width <= 0 || c.Term.Height <= 0) {
		errs = append(errs, errors.New("term dimensions must be positive"))
	}
	return errors.Join(errs...)
}
