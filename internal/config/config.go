// Package config loads tagsphere settings from a YAML file with
// TAGSPHERE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/phanxgames/tagsphere"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: TAGSPHERE_CLOUD__MAX_FONT_SIZE sets cloud.max_font_size.
const EnvPrefix = "TAGSPHERE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps TAGSPHERE_WINDOW__SHOW_FPS to window.show_fps.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	sources := 0
	for _, s := range []string{c.Data.URL, c.Data.File, c.Data.HTML} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("data: set only one of url, file, html")
	}
	if c.Data.Watch && c.Data.File == "" {
		return errors.New("data.watch requires data.file")
	}
	if c.Navigation.TimeoutSeconds < 0 {
		return errors.New("navigation.timeout_seconds must be non-negative")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := c.EngineConfig(); err != nil {
		return err
	}
	return nil
}

// NavigationTimeout returns the per-fetch timeout.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Navigation.TimeoutSeconds) * time.Second
}

// EngineConfig returns the engine configuration with the theme colors
// parsed in, validated.
func (c *Config) EngineConfig() (tagsphere.Config, error) {
	ec := c.Cloud
	if c.Theme.Color != "" {
		col, err := tagsphere.ParseHexColor(c.Theme.Color)
		if err != nil {
			return ec, fmt.Errorf("theme.color: %w", err)
		}
		ec.ThemeColor = col
	}
	if len(c.Theme.Palette) > 0 {
		palette := make([]tagsphere.Color, 0, len(c.Theme.Palette))
		for i, s := range c.Theme.Palette {
			col, err := tagsphere.ParseHexColor(s)
			if err != nil {
				return ec, fmt.Errorf("theme.palette[%d]: %w", i, err)
			}
			palette = append(palette, col)
		}
		ec.Palette = palette
	}
	if err := ec.Validate(); err != nil {
		return ec, fmt.Errorf("cloud: %w", err)
	}
	return ec, nil
}

// Background returns the parsed window background, or a transparent color
// when none is set.
func (c *Config) Background() (tagsphere.Color, error) {
	if c.Window.Background == "" {
		return tagsphere.Color{}, nil
	}
	col, err := tagsphere.ParseHexColor(c.Window.Background)
	if err != nil {
		return tagsphere.Color{}, fmt.Errorf("window.background: %w", err)
	}
	return col, nil
}
