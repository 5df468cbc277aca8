package tagsphere

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	ShowFPS   bool
	Debug     bool
	// Background fills the window each frame when its alpha is non-zero.
	Background Color
	// OnUpdate, if set, runs before each cloud update. A non-nil error ends
	// the game loop; ebiten.Termination ends it cleanly.
	OnUpdate func(*Cloud) error
}

// game wraps a Cloud with the per-frame hook.
type game struct {
	*Cloud
	onUpdate func(*Cloud) error
}

func (g *game) Update() error {
	if g.onUpdate != nil {
		if err := g.onUpdate(g.Cloud); err != nil {
			return err
		}
	}
	return g.Cloud.Update()
}

// Run opens a window hosting cloud and blocks until it is closed. The cloud
// spans the window width with its height set by Config.ContainerHeight, and
// rebuilds when the window is resized.
func Run(cloud *Cloud, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("tagsphere: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	cloud.ShowFPS = cfg.ShowFPS
	cloud.ClearColor = cfg.Background
	cloud.SetDebugMode(cfg.Debug)
	defer cloud.Close()
	if err := ebiten.RunGame(&game{Cloud: cloud, onUpdate: cfg.OnUpdate}); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("tagsphere: run: %w", err)
	}
	return nil
}
