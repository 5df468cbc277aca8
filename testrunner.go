package tagsphere

import (
	"encoding/json"
	"errors"
	"fmt"
)

// defaultConditionFrames bounds settle and navigation steps that set no
// frame limit.
const defaultConditionFrames = 600

// ErrScriptTimeout is reported by TestRunner.Err when a settle or
// navigation step runs out of frames.
var ErrScriptTimeout = errors.New("test script: condition not met")

// scriptStep is one action of a test script. Tag names a label to target
// instead of explicit coordinates.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Tag    string  `json:"tag,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// TestRunner plays a scripted session against a Cloud, one action per
// frame. Injected input drains before the next action starts, and settle
// and navigation steps hold the script until the cloud reaches that state.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int

	until  func(*Cloud) bool
	budget int
	what   string

	done bool
	err  error
}

// LoadTestScript parses a JSON test script. Actions:
//
//	click, hover   at x/y, or on the label named by tag
//	drag           fromX/fromY to toX/toY over frames
//	wheel          dy notches
//	wait           frames
//	settle         until the solver halts (frames bounds the wait)
//	navigation     until no fetch is in flight and the selection is released
//	reset          animate the camera back to its defaults
//	screenshot     label names the file
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: s.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "click", "hover", "wheel", "reset", "screenshot":
	case "drag":
		if st.Frames < 0 {
			return fmt.Errorf("drag: negative frames %d", st.Frames)
		}
	case "wait":
		if st.Frames <= 0 {
			return errors.New("wait: frames must be positive")
		}
	case "settle", "navigation":
		if st.Frames < 0 {
			return fmt.Errorf("%s: negative frames %d", st.Action, st.Frames)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// SetTestRunner attaches a TestRunner. It advances from Step before input
// is processed each frame.
func (c *Cloud) SetTestRunner(runner *TestRunner) {
	c.testRunner = runner
}

// Done reports whether the script has finished, successfully or not.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the failure that stopped the script, if any.
func (r *TestRunner) Err() error {
	return r.err
}

func (r *TestRunner) fail(err error) {
	r.err = err
	r.done = true
}

func (r *TestRunner) step(c *Cloud) {
	if r.done || len(c.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.until != nil {
		if !r.until(c) {
			r.budget--
			if r.budget <= 0 {
				r.fail(fmt.Errorf("%w: %s", ErrScriptTimeout, r.what))
			}
			return
		}
		r.until = nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	if err := r.run(c, st); err != nil {
		c.logger.Error("test script failed", "step", r.cursor-1, "action", st.Action, "err", err)
		r.fail(err)
		return
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.until == nil && len(c.injectQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) run(c *Cloud, st scriptStep) error {
	switch st.Action {
	case "screenshot":
		c.Screenshot(st.Label)
	case "click", "hover":
		x, y, err := r.target(c, st)
		if err != nil {
			return err
		}
		if st.Action == "click" {
			c.InjectClick(x, y)
		} else {
			c.InjectHover(x, y)
		}
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		c.InjectWheel(st.DY)
	case "wait":
		r.waitCount = st.Frames - 1 // this frame counts as one
	case "reset":
		if c.engine != nil {
			c.engine.ResetCamera(c.cfg.ResetDuration)
		}
	case "settle":
		r.hold("solver settled", st.Frames, func(c *Cloud) bool {
			return c.engine == nil || c.engine.Solver().Halted()
		})
	case "navigation":
		r.hold("navigation finished", st.Frames, func(c *Cloud) bool {
			return c.inFlight == 0 && (c.engine == nil || c.engine.Selected() == nil)
		})
	}
	return nil
}

func (r *TestRunner) hold(what string, frames int, cond func(*Cloud) bool) {
	if frames <= 0 {
		frames = defaultConditionFrames
	}
	r.until, r.budget, r.what = cond, frames, what
}

// target resolves a click or hover position, looking the label up by name
// when the step names a tag.
func (r *TestRunner) target(c *Cloud, st scriptStep) (float64, float64, error) {
	if st.Tag == "" {
		return st.X, st.Y, nil
	}
	if c.engine != nil {
		for _, n := range c.engine.Nodes() {
			if n.Label.Name == st.Tag {
				return n.Screen.X, n.Screen.Y, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%s: no label named %q", st.Action, st.Tag)
}
