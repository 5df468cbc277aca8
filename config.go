package tagsphere

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Sentinel errors returned by NewEngine and Config.Validate.
var (
	ErrNoLabels      = errors.New("tagsphere: no labels")
	ErrInvalidConfig = errors.New("tagsphere: invalid config")
)

// Config holds every tunable of a tag cloud. Start from DefaultConfig and
// override fields; the solver constants are empirical defaults, not physics.
// Durations are in seconds of simulation-clock time.
type Config struct {
	// Container size in pixels. Semi-axes are RadiusFactor times the size.
	Width        float64 `koanf:"width" yaml:"width"`
	Height       float64 `koanf:"height" yaml:"height"`
	RadiusFactor float64 `koanf:"radius_factor" yaml:"radius_factor"`

	// Label metrics.
	MinFontSize float64 `koanf:"min_font_size" yaml:"min_font_size"`
	MaxFontSize float64 `koanf:"max_font_size" yaml:"max_font_size"`
	Padding     float64 `koanf:"padding" yaml:"padding"`
	Font        Font    `koanf:"-" yaml:"-"`

	// Colors. When UsePalette is set, label i gets Palette[i%len(Palette)].
	ThemeColor      Color   `koanf:"-" yaml:"-"`
	Palette         []Color `koanf:"-" yaml:"-"`
	UsePalette      bool    `koanf:"use_palette" yaml:"use_palette"`
	BackgroundAlpha float64 `koanf:"background_alpha" yaml:"background_alpha"`
	MinOpacity      float64 `koanf:"min_opacity" yaml:"min_opacity"`
	MinBrightness   float64 `koanf:"min_brightness" yaml:"min_brightness"`

	// Constraint solver.
	ManifoldTarget    float64 `koanf:"manifold_target" yaml:"manifold_target"`
	ManifoldTolerance float64 `koanf:"manifold_tolerance" yaml:"manifold_tolerance"`
	ManifoldGain      float64 `koanf:"manifold_gain" yaml:"manifold_gain"`
	RepulsionGain     float64 `koanf:"repulsion_gain" yaml:"repulsion_gain"`
	RepulsionMargin   float64 `koanf:"repulsion_margin" yaml:"repulsion_margin"`
	AlphaDecay        float64 `koanf:"alpha_decay" yaml:"alpha_decay"`
	AlphaMin          float64 `koanf:"alpha_min" yaml:"alpha_min"`
	RestartAlpha      float64 `koanf:"restart_alpha" yaml:"restart_alpha"`

	// Camera and interaction.
	MinScale        float64 `koanf:"min_scale" yaml:"min_scale"`
	MaxScale        float64 `koanf:"max_scale" yaml:"max_scale"`
	DragThreshold   float64 `koanf:"drag_threshold" yaml:"drag_threshold"`
	Sensitivity     float64 `koanf:"sensitivity" yaml:"sensitivity"`
	WheelZoomStep   float64 `koanf:"wheel_zoom_step" yaml:"wheel_zoom_step"`
	AutoRotate      bool    `koanf:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateSpeed float64 `koanf:"auto_rotate_speed" yaml:"auto_rotate_speed"`
	IdleDelay       float64 `koanf:"idle_delay" yaml:"idle_delay"`

	// Presentation.
	HoverScale        float64 `koanf:"hover_scale" yaml:"hover_scale"`
	HoverDuration     float64 `koanf:"hover_duration" yaml:"hover_duration"`
	SelectScale       float64 `koanf:"select_scale" yaml:"select_scale"`
	SelectDuration    float64 `koanf:"select_duration" yaml:"select_duration"`
	SelectedFadeAlpha float64 `koanf:"selected_fade_alpha" yaml:"selected_fade_alpha"`
	ResetDuration     float64 `koanf:"reset_duration" yaml:"reset_duration"`
	ResetDelay        float64 `koanf:"reset_delay" yaml:"reset_delay"`
	SelectionHold     float64 `koanf:"selection_hold" yaml:"selection_hold"`
	GlowRadius        float64 `koanf:"glow_radius" yaml:"glow_radius"`
	GlowDuration      float64 `koanf:"glow_duration" yaml:"glow_duration"`
	EntranceDuration  float64 `koanf:"entrance_duration" yaml:"entrance_duration"`
	EntranceStagger   float64 `koanf:"entrance_stagger" yaml:"entrance_stagger"`

	// Container.
	ResizeDebounce float64 `koanf:"resize_debounce" yaml:"resize_debounce"`
	MaxHeight      float64 `koanf:"max_height" yaml:"max_height"`
	AspectRatio    float64 `koanf:"aspect_ratio" yaml:"aspect_ratio"`
	TitleFormat    string  `koanf:"title_format" yaml:"title_format"`

	Logger *log.Logger `koanf:"-" yaml:"-"`
}

// DefaultConfig returns the tuned defaults for a 300×180 sidebar cloud.
func DefaultConfig() Config {
	return Config{
		Width:        300,
		Height:       180,
		RadiusFactor: 0.35,

		MinFontSize: 12,
		MaxFontSize: 20,
		Padding:     5,

		ThemeColor: ThemeColor,
		Palette: []Color{
			ThemeColor,
			{R: 0x5b / 255.0, G: 0xc0 / 255.0, B: 0xc7 / 255.0, A: 1},
			{R: 0x3a / 255.0, G: 0x9c / 255.0, B: 0xa3 / 255.0, A: 1},
			{R: 0x6c / 255.0, G: 0xc8 / 255.0, B: 0xce / 255.0, A: 1},
			{R: 0x2c / 255.0, G: 0x8b / 255.0, B: 0x92 / 255.0, A: 1},
		},
		BackgroundAlpha: 0.15,
		MinOpacity:      0.3,
		MinBrightness:   0.6,

		ManifoldTarget:    0.95,
		ManifoldTolerance: 0.02,
		ManifoldGain:      0.1,
		RepulsionGain:     0.5,
		RepulsionMargin:   8,
		AlphaDecay:        0.99,
		AlphaMin:          0.01,
		RestartAlpha:      0.3,

		MinScale:        0.5,
		MaxScale:        2,
		DragThreshold:   4,
		Sensitivity:     0.01,
		WheelZoomStep:   0.1,
		AutoRotate:      true,
		AutoRotateSpeed: 0.18,
		IdleDelay:       3,

		HoverScale:        1.15,
		HoverDuration:     0.2,
		SelectScale:       1.5,
		SelectDuration:    0.5,
		SelectedFadeAlpha: 0.3,
		ResetDuration:     0.4,
		ResetDelay:        0.3,
		SelectionHold:     1.5,
		GlowRadius:        40,
		GlowDuration:      0.8,
		EntranceDuration:  1,
		EntranceStagger:   0.1,

		ResizeDebounce: 0.3,
		MaxHeight:      180,
		AspectRatio:    0.6,
		TitleFormat:    "%s - tag articles",
	}
}

// Validate checks the configuration for values that would make the engine
// divide by zero or never converge.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: container size %gx%g must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.RadiusFactor <= 0:
		return fmt.Errorf("%w: radius_factor must be positive", ErrInvalidConfig)
	case c.MinFontSize <= 0 || c.MaxFontSize < c.MinFontSize:
		return fmt.Errorf("%w: font sizes [%g, %g] out of order", ErrInvalidConfig, c.MinFontSize, c.MaxFontSize)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding must be non-negative", ErrInvalidConfig)
	case c.AlphaDecay <= 0 || c.AlphaDecay >= 1:
		return fmt.Errorf("%w: alpha_decay %g must be in (0, 1)", ErrInvalidConfig, c.AlphaDecay)
	case c.AlphaMin <= 0 || c.AlphaMin >= 1:
		return fmt.Errorf("%w: alpha_min %g must be in (0, 1)", ErrInvalidConfig, c.AlphaMin)
	case c.ManifoldTolerance < 0:
		return fmt.Errorf("%w: manifold_tolerance must be non-negative", ErrInvalidConfig)
	case c.MinScale <= 0 || c.MaxScale < c.MinScale:
		return fmt.Errorf("%w: scale range [%g, %g] out of order", ErrInvalidConfig, c.MinScale, c.MaxScale)
	case c.MinOpacity < 0 || c.MinOpacity > 1:
		return fmt.Errorf("%w: min_opacity %g must be in [0, 1]", ErrInvalidConfig, c.MinOpacity)
	case c.MinBrightness < 0 || c.MinBrightness > 1:
		return fmt.Errorf("%w: min_brightness %g must be in [0, 1]", ErrInvalidConfig, c.MinBrightness)
	case c.DragThreshold < 0:
		return fmt.Errorf("%w: drag_threshold must be non-negative", ErrInvalidConfig)
	case c.UsePalette && len(c.Palette) == 0:
		return fmt.Errorf("%w: use_palette set with an empty palette", ErrInvalidConfig)
	}
	return nil
}

// Axes returns the manifold semi-axes for the configured container size.
func (c *Config) Axes() Axes {
	return AxesFor(c.Width, c.Height, c.RadiusFactor)
}

// ContainerHeight applies the sidebar height policy min(MaxHeight,
// width·AspectRatio). A zero MaxHeight or AspectRatio disables that bound.
func (c *Config) ContainerHeight(width float64) float64 {
	h := width
	if c.AspectRatio > 0 {
		h = width * c.AspectRatio
	}
	if c.MaxHeight > 0 && h > c.MaxHeight {
		h = c.MaxHeight
	}
	return h
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default().WithPrefix("tagsphere")
}
