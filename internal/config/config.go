// Package config loads the particle field configuration: embedded defaults
// overlaid with an optional YAML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/particle-field/internal/particle"
	"github.com/iburimskiy/particle-field/internal/render"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runtime settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Field     FieldConfig     `yaml:"field"`
	Particle  ParticleConfig  `yaml:"particle"`
	Links     LinksConfig     `yaml:"links"`
	Loop      LoopConfig      `yaml:"loop"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Theme     ThemeConfig     `yaml:"theme"`
	Content   ContentConfig   `yaml:"content"`
	Stream    StreamConfig    `yaml:"stream"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds the desktop window settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// FieldConfig holds the particle count and RNG seed (0 = time-based).
type FieldConfig struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"`
}

// ParticleConfig holds the attribute ranges of seeded particles.
type ParticleConfig struct {
	MaxSpeed   float64 `yaml:"max_speed"`
	MinSize    float64 `yaml:"min_size"`
	MaxSize    float64 `yaml:"max_size"`
	MinOpacity float64 `yaml:"min_opacity"`
	MaxOpacity float64 `yaml:"max_opacity"`
	HueMin     float64 `yaml:"hue_min"`
	HueMax     float64 `yaml:"hue_max"`
	Saturation float64 `yaml:"saturation"`
	Lightness  float64 `yaml:"lightness"`
}

// LinksConfig holds the proximity link style.
type LinksConfig struct {
	Distance      float64 `yaml:"distance"`
	MaxAlpha      float64 `yaml:"max_alpha"`
	LineWidth     float64 `yaml:"line_width"`
	GridThreshold int     `yaml:"grid_threshold"` // 0 = always brute force
}

// LoopConfig holds the frame rate of the terminal and headless loops.
type LoopConfig struct {
	FPS int `yaml:"fps"`
}

// TerminalConfig holds the cell geometry of the terminal backend.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	LogFile    string  `yaml:"log_file"`
}

// ThemeConfig holds the initial theme category.
type ThemeConfig struct {
	Default string `yaml:"default"`
}

// ContentConfig holds the trending content API settings. An empty BaseURL
// disables content loading.
type ContentConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	CarouselSize int           `yaml:"carousel_size"`
}

// StreamConfig holds the snapshot stream settings. An empty Addr disables it.
type StreamConfig struct {
	Addr         string `yaml:"addr"`
	ClientBuffer int    `yaml:"client_buffer"`
}

// TelemetryConfig holds frame telemetry settings.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
	Window    int    `yaml:"window"` // frames per summary
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that would make the loop unusable. Degenerate
// but harmless values (zero particles, zero link distance) are allowed.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Field.Count < 0 {
		errs = append(errs, fmt.Errorf("field.count must not be negative, got %d", c.Field.Count))
	}
	if c.Loop.FPS <= 0 {
		errs = append(errs, fmt.Errorf("loop.fps must be positive, got %d", c.Loop.FPS))
	}
	if c.Particle.MinSize > c.Particle.MaxSize {
		errs = append(errs, errors.New("particle.min_size exceeds particle.max_size"))
	}
	if c.Particle.MinOpacity > c.Particle.MaxOpacity {
		errs = append(errs, errors.New("particle.min_opacity exceeds particle.max_opacity"))
	}
	if c.Particle.HueMin > c.Particle.HueMax {
		errs = append(errs, errors.New("particle.hue_min exceeds particle.hue_max"))
	}
	if c.Links.Distance < 0 {
		errs = append(errs, fmt.Errorf("links.distance must not be negative, got %v", c.Links.Distance))
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		errs = append(errs, errors.New("terminal cell size must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Params converts the particle section to simulator parameters.
func (c *Config) Params() particle.Params {
	return particle.Params{
		MaxSpeed:   c.Particle.MaxSpeed,
		MinSize:    c.Particle.MinSize,
		MaxSize:    c.Particle.MaxSize,
		MinOpacity: c.Particle.MinOpacity,
		MaxOpacity: c.Particle.MaxOpacity,
		HueMin:     c.Particle.HueMin,
		HueMax:     c.Particle.HueMax,
		Saturation: c.Particle.Saturation,
		Lightness:  c.Particle.Lightness,
	}
}

// RenderOptions converts the links section to renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		LinkDistance:  c.Links.Distance,
		LinkMaxAlpha:  c.Links.MaxAlpha,
		LinkColor:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		LineWidth:     c.Links.LineWidth,
		GridThreshold: c.Links.GridThreshold,
	}
}

// FrameInterval returns the delay between frames of the ticker-driven loops.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Loop.FPS)
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
