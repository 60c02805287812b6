// Package config loads the img2ascii command line configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is named.
const DefaultPath = "img2ascii.yaml"

// Config mirrors the YAML configuration file. The glyph ramp is
// deliberately not configurable.
type Config struct {
	MaxWidth      int     `yaml:"max_width"`
	MaxHeight     int     `yaml:"max_height"`
	WidthScale    float64 `yaml:"width_scale"`
	Interpolation string  `yaml:"interpolation"`
	ClipLimit     float64 `yaml:"clip_limit"`
	TileGrid      int     `yaml:"tile_grid"`
	EdgeLow       float64 `yaml:"edge_low"`
	EdgeHigh      float64 `yaml:"edge_high"`
	Backend       string  `yaml:"backend"`
	Output        string  `yaml:"output"`
	Preview       string  `yaml:"preview"`
	FontSize      float64 `yaml:"font_size"`
	LogLevel      string  `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		MaxWidth:      150,
		MaxHeight:     60,
		WidthScale:    2,
		Interpolation: "area",
		ClipLimit:     2,
		TileGrid:      8,
		EdgeLow:       100,
		EdgeHigh:      200,
		Backend:       "go",
		Output:        "ascii_art.txt",
		FontSize:      7,
		LogLevel:      "info",
	}
}

// Load reads the configuration at path on top of Default. A missing file
// is not an error; missing keys keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot drive a conversion.
func (c *Config) Validate() error {
	switch {
	case c.MaxWidth < 1:
		return fmt.Errorf("max_width must be positive, got %d", c.MaxWidth)
	case c.MaxHeight < 1:
		return fmt.Errorf("max_height must be positive, got %d", c.MaxHeight)
	case c.WidthScale <= 0:
		return fmt.Errorf("width_scale must be positive, got %g", c.WidthScale)
	case c.ClipLimit < 0:
		return fmt.Errorf("clip_limit must not be negative, got %g", c.ClipLimit)
	case c.TileGrid < 1:
		return fmt.Errorf("tile_grid must be positive, got %d", c.TileGrid)
	case c.EdgeLow < 0 || c.EdgeHigh < 0:
		return fmt.Errorf("edge thresholds must not be negative, got %g/%g", c.EdgeLow, c.EdgeHigh)
	case c.FontSize <= 0:
		return fmt.Errorf("font_size must be positive, got %g", c.FontSize)
	case c.Output == "":
		return errors.New("output must not be empty")
	}
	if _, err := imageutil.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", level)
	}
}
