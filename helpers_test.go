package tagsphere

import (
	"io"
	"math"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// fixedFont measures every rune as half the font size wide and one size
// tall, so tests can compute label boxes by hand.
type fixedFont struct{}

func (fixedFont) Measure(s string, size float64) (float64, float64) {
	return 0.5 * size * float64(utf8.RuneCountInString(s)), size
}

// testConfig returns defaults with deterministic metrics, no auto-rotation,
// no entrance fade and a silent logger.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Font = fixedFont{}
	cfg.AutoRotate = false
	cfg.EntranceDuration = 0
	cfg.Logger = log.New(io.Discard)
	return cfg
}

func newTestEngine(t *testing.T, labels []Label) *Engine {
	t.Helper()
	e, err := NewEngine(labels, testConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// recorder collects emitted events.
type recorder struct {
	events []Event
}

func (r *recorder) EmitEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// single is one label. With the default 300×180 container it projects to
// (150, 27) with a 22×22 box.
var single = []Label{{Name: "go", Count: 1, URL: "/tags/go/"}}

const singleX, singleY = 150.0, 27.0

func sampleLabels() []Label {
	return []Label{
		{Name: "go", Count: 12, URL: "/tags/go/"},
		{Name: "ebitengine", Count: 5, URL: "/tags/ebitengine/"},
		{Name: "shaders", Count: 3, URL: "/tags/shaders/"},
		{Name: "tweens", Count: 2, URL: "/tags/tweens/"},
		{Name: "ecs", Count: 7, URL: "/tags/ecs/"},
		{Name: "wasm", Count: 1, URL: "/tags/wasm/"},
		{Name: "fonts", Count: 4, URL: "/tags/fonts/"},
		{Name: "input", Count: 6, URL: "/tags/input/"},
	}
}

// approx compares tween outputs, which pass through float32.
func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-5
}
