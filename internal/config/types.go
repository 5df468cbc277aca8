package config

import "github.com/phanxgames/tagsphere"

// Config is the top-level tagsphere configuration, corresponding to
// tagsphere.yml.
type Config struct {
	Data       DataConfig       `yaml:"data" koanf:"data"`
	Navigation NavigationConfig `yaml:"navigation" koanf:"navigation"`
	Window     WindowConfig     `yaml:"window" koanf:"window"`
	Serve      ServeConfig      `yaml:"serve" koanf:"serve"`
	Theme      ThemeConfig      `yaml:"theme" koanf:"theme"`
	Cloud      tagsphere.Config `yaml:"cloud" koanf:"cloud"`
}

// DataConfig selects where labels come from. Exactly one of URL, File or
// HTML is used, in that order of preference.
type DataConfig struct {
	URL  string `yaml:"url" koanf:"url"`
	File string `yaml:"file" koanf:"file"`
	// HTML is a page carrying .tag-data elements.
	HTML     string `yaml:"html" koanf:"html"`
	Selector string `yaml:"selector" koanf:"selector"`
	// Watch reloads File when it changes.
	Watch bool `yaml:"watch" koanf:"watch"`
}

// NavigationConfig configures the fetch bridge used when a label is clicked.
type NavigationConfig struct {
	BaseURL         string `yaml:"base_url" koanf:"base_url"`
	ContentSelector string `yaml:"content_selector" koanf:"content_selector"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Title     string `yaml:"title" koanf:"title"`
	Width     int    `yaml:"width" koanf:"width"`
	Height    int    `yaml:"height" koanf:"height"`
	Resizable bool   `yaml:"resizable" koanf:"resizable"`
	ShowFPS   bool   `yaml:"show_fps" koanf:"show_fps"`
	// Background is a hex color; empty leaves the window black.
	Background string `yaml:"background" koanf:"background"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `yaml:"addr" koanf:"addr"`
}

// ThemeConfig holds colors as hex strings (#RRGGBB or #RRGGBBAA).
type ThemeConfig struct {
	Color   string   `yaml:"color" koanf:"color"`
	Palette []string `yaml:"palette" koanf:"palette"`
}
