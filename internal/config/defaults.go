package config

import "github.com/phanxgames/tagsphere"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "tagsphere.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Navigation: NavigationConfig{
			ContentSelector: ".content",
			TimeoutSeconds:  10,
		},
		Window: WindowConfig{
			Title:     "tagsphere",
			Width:     600,
			Height:    360,
			Resizable: true,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
		Theme: ThemeConfig{
			Color:   "#47BAC1",
			Palette: []string{"#47BAC1", "#5BC0C7", "#3A9CA3", "#6CC8CE", "#2C8B92"},
		},
		Cloud: tagsphere.DefaultConfig(),
	}
}
