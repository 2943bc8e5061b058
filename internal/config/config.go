// Package config loads the demo's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window WindowConfig `yaml:"window"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Title string `yaml:"title"`
	// Width and Height of 0 mean half the primary display.
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
}

type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color"`
	FrameRate  int        `yaml:"frame_rate"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationError names the key that failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title: "Piko",
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.1, 0.12, 0.16, 1.0},
			FrameRate:  60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "piko", "config.yaml"), nil
}

// LoadFromPath reads path over the defaults. A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width < 0 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be >= 0")}
	}
	if c.Window.Height < 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be >= 0")}
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			return &ValidationError{Path: fmt.Sprintf("render.clear_color[%d]", i), Err: fmt.Errorf("component must be within [0, 1]")}
		}
	}
	if c.Render.FrameRate <= 0 || c.Render.FrameRate > 1000 {
		return &ValidationError{Path: "render.frame_rate", Err: fmt.Errorf("frame_rate must be between 1 and 1000")}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return &ValidationError{Path: "log.level", Err: err}
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return &ValidationError{Path: "log.format", Err: fmt.Errorf("format must be one of: auto, text, json")}
	}
	return nil
}

// SlogLevel parses Level as a slog level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return level, fmt.Errorf("level must be one of: debug, info, warn, error")
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, err
	}
	return level, nil
}
