package tagsphere

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/tagsphere/navigate"
)

const defaultNavTimeout = 10 * time.Second

// Navigator fetches the page behind a label URL.
type Navigator interface {
	Fetch(ctx context.Context, url string) (*navigate.Page, error)
}

// Opener opens a URL outside the application, the fallback when a fetch
// fails.
type Opener interface {
	Open(url string) error
}

// ContentHost receives fetched pages, replacing the main content region.
type ContentHost interface {
	ReplaceContent(page *navigate.Page, title string)
}

type navResult struct {
	engine  *Engine // engine that requested the fetch; nil for history replays
	label   Label
	url     string
	page    *navigate.Page
	err     error
	history bool
}

// Cloud is the container hosting one live Engine. It owns the viewport,
// debounces resizes into rebuilds, gates pointer input, and runs navigation
// fetches off the update goroutine. Cloud implements ebiten.Game.
type Cloud struct {
	cfg    Config
	logger *log.Logger
	labels []Label

	engine   *Engine
	loadErr  error
	viewport Rect
	pending  *Rect
	waited   float64
	laidOut  bool

	ctx    context.Context
	cancel context.CancelFunc

	navigator  Navigator
	opener     Opener
	host       ContentHost
	history    navigate.History
	navTimeout time.Duration
	navResults chan navResult
	inFlight   int

	pointerEnabled bool
	input          InputSource
	injectQueue    []syntheticPointerEvent
	testRunner     *TestRunner
	sink           EventSink
	reloads        chan []Label

	cursor ebiten.CursorShapeType

	// ClearColor fills the viewport before drawing when its alpha is non-zero.
	ClearColor Color
	// ShowFPS draws an FPS/TPS overlay in the viewport's top-left corner.
	ShowFPS bool
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	screenshotQueue []string

	debug     bool
	frames    uint64
	lastStats debugStats
}

// NewCloud creates a container of cfg.Width × cfg.Height at the origin and
// builds the first engine. A build failure is logged and the cloud draws
// its error placeholder instead.
func NewCloud(labels []Label, cfg Config) *Cloud {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cloud{
		cfg:            cfg,
		logger:         cfg.logger(),
		labels:         append([]Label(nil), labels...),
		viewport:       Rect{Width: cfg.Width, Height: cfg.Height},
		ctx:            ctx,
		cancel:         cancel,
		navTimeout:     defaultNavTimeout,
		navResults:     make(chan navResult, 4),
		pointerEnabled: true,
		input:          &ebitenInput{},
		reloads:        make(chan []Label, 1),
		ScreenshotDir:  "screenshots",
	}
	c.rebuild(false)
	return c
}

// Engine returns the live engine, or nil when the last build failed.
func (c *Cloud) Engine() *Engine { return c.engine }

// LoadError returns the error that prevented the current build, if any.
func (c *Cloud) LoadError() error { return c.loadErr }

// SetLoadError shows the error placeholder, as when the label source could
// not be read.
func (c *Cloud) SetLoadError(err error) {
	c.loadErr = err
	if err != nil {
		c.logger.Error("tag cloud failed to load", "err", err)
	}
}

// Viewport returns the container rectangle.
func (c *Cloud) Viewport() Rect { return c.viewport }

// PointerEnabled reports whether pointer input reaches the engine. It is
// false while a navigation fetch is in flight.
func (c *Cloud) PointerEnabled() bool { return c.pointerEnabled }

// History returns the navigation history.
func (c *Cloud) History() *navigate.History { return &c.history }

// SetNavigator attaches the navigation bridge. opener is the fallback for
// failed fetches and host receives successful pages; either may be nil.
func (c *Cloud) SetNavigator(nav Navigator, opener Opener, host ContentHost) {
	c.navigator = nav
	c.opener = opener
	c.host = host
	if c.engine != nil {
		c.attach(c.engine)
	}
}

// SetNavigationTimeout bounds each fetch.
func (c *Cloud) SetNavigationTimeout(d time.Duration) {
	if d > 0 {
		c.navTimeout = d
	}
}

// SetInputSource replaces the Ebitengine poller. Pass nil to drive the
// cloud only through injected events.
func (c *Cloud) SetInputSource(in InputSource) { c.input = in }

// SetEventSink forwards engine events, across rebuilds, to sink.
func (c *Cloud) SetEventSink(sink EventSink) {
	c.sink = sink
	if c.engine != nil {
		c.engine.SetEventSink(sink)
	}
}

// SetDebugMode enables per-frame timing logs at debug level.
func (c *Cloud) SetDebugMode(enabled bool) {
	c.debug = enabled
	if c.engine != nil {
		c.engine.SetDebugMode(enabled)
	}
}

// SetLabels replaces the label set and rebuilds immediately, keeping the
// camera.
func (c *Cloud) SetLabels(labels []Label) {
	c.labels = append([]Label(nil), labels...)
	c.rebuild(true)
}

// ReloadLabels queues a label set for the next Update. Safe to call from any
// goroutine; only the most recent set is kept.
func (c *Cloud) ReloadLabels(labels []Label) {
	for {
		select {
		case c.reloads <- labels:
			return
		default:
		}
		select {
		case <-c.reloads:
		default:
		}
	}
}

// Reset rebuilds the engine with the default camera.
func (c *Cloud) Reset() {
	c.rebuild(false)
}

// Close disposes the engine and cancels in-flight fetches.
func (c *Cloud) Close() {
	c.cancel()
	if c.engine != nil {
		c.engine.Dispose()
		c.engine = nil
	}
}

// SetViewport moves or resizes the container. A move applies immediately; a
// size change rebuilds the engine once the size has been stable for
// Config.ResizeDebounce seconds. The first call applies immediately.
func (c *Cloud) SetViewport(r Rect) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	if !c.laidOut {
		c.laidOut = true
		if r.Width != c.viewport.Width || r.Height != c.viewport.Height {
			c.viewport = r
			c.rebuild(true)
			return
		}
	}
	if c.pending != nil && *c.pending == r {
		return
	}
	if r.Width == c.viewport.Width && r.Height == c.viewport.Height {
		c.pending = nil
		c.viewport = r
		if c.engine != nil {
			c.engine.SetOrigin(r.X, r.Y)
		}
		return
	}
	c.pending = &r
	c.waited = 0
}

// Layout implements ebiten.Game. The cloud spans the window width; its
// height follows Config.ContainerHeight, capped at the window height.
func (c *Cloud) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := float64(outsideWidth)
	h := math.Min(c.cfg.ContainerHeight(w), float64(outsideHeight))
	c.SetViewport(Rect{Width: w, Height: h})
	return outsideWidth, outsideHeight
}

// Update implements ebiten.Game.
func (c *Cloud) Update() error {
	c.Step(1.0 / float64(ebiten.TPS()))
	return nil
}

// Step advances the container by dt seconds: pending reloads, navigation
// results and resizes are applied, input is fed, then the engine ticks.
func (c *Cloud) Step(dt float64) {
	c.drainReloads()
	c.drainNavigation()
	c.applyResize(dt)

	eng := c.engine
	if eng == nil {
		return
	}
	if c.testRunner != nil {
		c.testRunner.step(c)
	}
	if !c.processInjectedInput() && c.pointerEnabled && c.input != nil {
		c.input.Poll(eng)
	}
	eng.Update(dt)
	c.frames++
}

// Draw implements ebiten.Game.
func (c *Cloud) Draw(screen *ebiten.Image) {
	var start time.Time
	if c.debug {
		start = time.Now()
	}

	vp := c.viewport
	sub := screen.SubImage(image.Rect(
		int(vp.X), int(vp.Y),
		int(vp.X+vp.Width), int(vp.Y+vp.Height),
	)).(*ebiten.Image)
	if c.ClearColor.A > 0 {
		sub.Fill(c.ClearColor.toRGBA())
	}
	switch {
	case c.engine != nil:
		c.engine.Draw(sub)
	case c.loadErr != nil:
		ebitenutil.DebugPrintAt(sub, "tag cloud failed to load", int(vp.X)+8, int(vp.Y)+8)
	}
	c.updateCursor()
	if c.ShowFPS {
		drawFPS(sub, vp)
	}

	if c.debug {
		c.debugLog(time.Since(start))
	}
	c.flushScreenshots(sub)
}

func (c *Cloud) updateCursor() {
	shape := ebiten.CursorShapeDefault
	switch {
	case !c.pointerEnabled:
		shape = ebiten.CursorShapeNotAllowed
	case c.engine != nil && c.engine.Hovered() != nil:
		shape = ebiten.CursorShapePointer
	}
	if shape != c.cursor {
		c.cursor = shape
		ebiten.SetCursorShape(shape)
	}
}

func (c *Cloud) applyResize(dt float64) {
	if c.pending == nil {
		return
	}
	c.waited += dt
	if c.waited+1e-9 < c.cfg.ResizeDebounce {
		return
	}
	c.viewport = *c.pending
	c.pending = nil
	c.rebuild(true)
}

// rebuild replaces the engine. Inputs are validated first so a bad label set
// or size leaves the current engine running; the old engine is disposed
// before the new one is built.
func (c *Cloud) rebuild(preserveCamera bool) {
	cfg := c.cfg
	cfg.Width, cfg.Height = c.viewport.Width, c.viewport.Height
	if err := cfg.Validate(); err != nil {
		c.logger.Error("tag cloud rebuild skipped", "err", err)
		return
	}
	if len(c.labels) == 0 {
		if c.engine == nil {
			c.SetLoadError(ErrNoLabels)
		} else {
			c.logger.Warn("ignoring empty label set")
		}
		return
	}

	var state CameraState
	restore := false
	if old := c.engine; old != nil {
		if preserveCamera {
			state = old.Camera().State()
			restore = true
		}
		old.Dispose()
		c.engine = nil
	}

	eng, err := NewEngine(c.labels, cfg)
	if err != nil {
		c.SetLoadError(fmt.Errorf("build engine: %w", err))
		return
	}
	c.loadErr = nil
	eng.SetOrigin(c.viewport.X, c.viewport.Y)
	if restore {
		eng.Camera().Restore(state)
	}
	c.attach(eng)
	c.logger.Debug("tag cloud built", "id", eng.ID(), "labels", len(c.labels),
		"size", fmt.Sprintf("%gx%g", cfg.Width, cfg.Height))
}

func (c *Cloud) attach(eng *Engine) {
	c.engine = eng
	eng.SetEventSink(c.sink)
	eng.SetDebugMode(c.debug)
	if c.navigator == nil {
		eng.OnNavigate(nil)
		return
	}
	eng.OnNavigate(func(l Label) {
		c.startNavigation(navResult{engine: eng, label: l, url: l.URL})
	})
}

func (c *Cloud) drainReloads() {
	select {
	case labels := <-c.reloads:
		c.SetLabels(labels)
	default:
	}
}

// --- Navigation ---

// startNavigation disables pointer input and fetches req.url on a goroutine.
// The result is applied by drainNavigation on the update goroutine.
func (c *Cloud) startNavigation(req navResult) {
	c.pointerEnabled = false
	c.inFlight++
	nav := c.navigator
	ctx, cancel := context.WithTimeout(c.ctx, c.navTimeout)
	c.logger.Info("navigating", "url", req.url, "tag", req.label.Name)
	go func() {
		defer cancel()
		req.page, req.err = nav.Fetch(ctx, req.url)
		select {
		case c.navResults <- req:
		case <-c.ctx.Done():
		}
	}()
}

func (c *Cloud) drainNavigation() {
	for {
		select {
		case r := <-c.navResults:
			c.finishNavigation(r)
		default:
			return
		}
	}
}

func (c *Cloud) finishNavigation(r navResult) {
	c.inFlight--
	defer func() {
		if c.inFlight <= 0 {
			c.inFlight = 0
			c.pointerEnabled = true
		}
		if r.engine != nil && r.engine == c.engine && !r.engine.IsDisposed() {
			r.engine.NavigationDone()
		}
	}()

	if errors.Is(r.err, navigate.ErrNoContent) {
		c.logger.Warn("page has no content region", "url", r.url)
		return
	}
	if r.err != nil {
		c.logger.Warn("navigation failed, opening externally", "url", r.url, "err", r.err)
		if c.opener != nil {
			if err := c.opener.Open(r.url); err != nil {
				c.logger.Error("fallback open failed", "url", r.url, "err", err)
			}
		}
		return
	}

	title := r.page.Title
	if r.label.Name != "" && c.cfg.TitleFormat != "" {
		title = fmt.Sprintf(c.cfg.TitleFormat, r.label.Name)
	}
	if !r.history {
		c.history.Push(navigate.Entry{URL: r.url, Title: title, Tag: r.label.Name})
	}
	if c.host != nil {
		c.host.ReplaceContent(r.page, title)
	}
}

// Back re-fetches the previous history entry. It reports whether a fetch
// was started.
func (c *Cloud) Back() bool {
	if c.navigator == nil || !c.pointerEnabled {
		return false
	}
	entry, ok := c.history.Back()
	if !ok {
		return false
	}
	c.startNavigation(navResult{url: entry.URL, label: Label{Name: entry.Tag}, history: true})
	return true
}

// Forward re-fetches the next history entry. It reports whether a fetch was
// started.
func (c *Cloud) Forward() bool {
	if c.navigator == nil || !c.pointerEnabled {
		return false
	}
	entry, ok := c.history.Forward()
	if !ok {
		return false
	}
	c.startNavigation(navResult{url: entry.URL, label: Label{Name: entry.Tag}, history: true})
	return true
}
