package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/phanxgames/tagsphere"
	"github.com/phanxgames/tagsphere/internal/config"
	"github.com/phanxgames/tagsphere/navigate"
	"github.com/phanxgames/tagsphere/source"
)

func newRunCmd() *cobra.Command {
	var (
		data       dataFlags
		baseURL    string
		showFPS    bool
		debug      bool
		scriptPath string
		exitAfter  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window with the tag cloud",
		Long: `Open a window with the tag cloud.

Labels come from --url, --file or --html, or from the data section of the
config. Clicking a label fetches its page through the navigation bridge and
falls back to the system browser when the fetch fails.

Keys: Alt+Left / Alt+Right walk the navigation history, R resets the camera,
F12 saves a screenshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			data.apply(cfg)
			if baseURL != "" {
				cfg.Navigation.BaseURL = baseURL
			}
			if showFPS {
				cfg.Window.ShowFPS = true
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			var script *tagsphere.TestRunner
			if scriptPath != "" {
				raw, err := os.ReadFile(scriptPath)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				if script, err = tagsphere.LoadTestScript(raw); err != nil {
					return err
				}
			}
			return runWindow(ctx, loggerFromContext(ctx), cfg, runOptions{
				debug:     debug,
				script:    script,
				exitAfter: exitAfter,
			})
		},
	}

	cmd.Flags().StringVar(&data.url, "url", "", "JSON tag endpoint")
	cmd.Flags().StringVarP(&data.file, "file", "f", "", "JSON or YAML tag file")
	cmd.Flags().StringVar(&data.html, "html", "", "HTML page or file carrying .tag-data elements")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for relative tag links")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show the FPS overlay")
	cmd.Flags().BoolVar(&debug, "debug", false, "log per-frame timing")
	cmd.Flags().StringVar(&scriptPath, "script", "", "JSON input script to replay")
	cmd.Flags().BoolVar(&exitAfter, "exit-after-script", false, "close the window when the script finishes")

	return cmd
}

type runOptions struct {
	debug     bool
	script    *tagsphere.TestRunner
	exitAfter bool
}

func runWindow(ctx context.Context, logger *log.Logger, cfg *config.Config, opts runOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	engineCfg.Logger = logger.WithPrefix("tagsphere")
	engineCfg.Width = float64(cfg.Window.Width)
	engineCfg.Height = float64(cfg.Window.Height)
	background, err := cfg.Background()
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.NavigationTimeout()}
	p := newProgress(logger)
	labels, loadErr := loadLabels(ctx, client, cfg.Data)
	cloud := tagsphere.NewCloud(labels, engineCfg)
	if loadErr != nil {
		cloud.SetLoadError(loadErr)
	} else {
		p.done("labels loaded", "count", len(labels))
	}

	bridge := navigate.NewBridge(client, cfg.Navigation.BaseURL)
	if cfg.Navigation.ContentSelector != "" {
		bridge.ContentSelector = cfg.Navigation.ContentSelector
	}
	cloud.SetNavigator(bridge, navigate.BrowserOpener{BaseURL: cfg.Navigation.BaseURL}, &windowHost{logger: logger})
	cloud.SetNavigationTimeout(cfg.NavigationTimeout())
	if opts.script != nil {
		cloud.SetTestRunner(opts.script)
	}

	if cfg.Data.Watch {
		go func() {
			if err := source.Watch(ctx, cfg.Data.File, logger, cloud.ReloadLabels); err != nil {
				logger.Error("label watcher stopped", "err", err)
			}
		}()
	}

	return tagsphere.Run(cloud, tagsphere.RunConfig{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Resizable:  cfg.Window.Resizable,
		ShowFPS:    cfg.Window.ShowFPS,
		Debug:      opts.debug,
		Background: background,
		OnUpdate: func(c *tagsphere.Cloud) error {
			if opts.exitAfter && opts.script != nil && opts.script.Done() {
				if err := opts.script.Err(); err != nil {
					return err
				}
				return ebiten.Termination
			}
			alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
			for _, k := range inpututil.AppendJustPressedKeys(nil) {
				applyKey(c, actionFor(alt, k))
			}
			return nil
		},
	})
}

// windowHost shows fetched tag pages by retitling the window and logging
// the extracted content.
type windowHost struct {
	logger *log.Logger
}

func (h *windowHost) ReplaceContent(page *navigate.Page, title string) {
	ebiten.SetWindowTitle(title)
	h.logger.Info("page loaded", "url", page.URL, "title", title)
	h.logger.Debug("page content", "text", page.Text)
}

type keyAction int

const (
	keyNone keyAction = iota
	keyBack
	keyForward
	keyResetCamera
	keyScreenshot
)

// actionFor maps a just-pressed key to an action.
func actionFor(alt bool, key ebiten.Key) keyAction {
	switch {
	case alt && key == ebiten.KeyArrowLeft:
		return keyBack
	case alt && key == ebiten.KeyArrowRight:
		return keyForward
	case !alt && key == ebiten.KeyR:
		return keyResetCamera
	case key == ebiten.KeyF12:
		return keyScreenshot
	}
	return keyNone
}

func applyKey(c *tagsphere.Cloud, a keyAction) {
	switch a {
	case keyBack:
		c.Back()
	case keyForward:
		c.Forward()
	case keyResetCamera:
		if eng := c.Engine(); eng != nil {
			eng.ResetCamera(eng.Config().ResetDuration)
		}
	case keyScreenshot:
		c.Screenshot("manual")
	}
}
