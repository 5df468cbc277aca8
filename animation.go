package tagsphere

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// tweenField or tweenFields and call Update(dt) each tick. The engine owns
// every group it starts; a group never outlives its engine.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	onDone func()
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// targets reports whether the group writes field.
func (g *TweenGroup) targets(field *float64) bool {
	for i := 0; i < g.count; i++ {
		if g.fields[i] == field {
			return true
		}
	}
	return false
}

// tweenField animates *field to the target value.
func tweenField(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// tweenFields animates two fields together.
func tweenFields(a *float64, toA float64, b *float64, toB float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(*a), float32(toA), duration, fn)
	g.tweens[1] = gween.New(float32(*b), float32(toB), duration, fn)
	g.fields[0] = a
	g.fields[1] = b
	return g
}

// animate starts a tween on field, replacing any running tween on the same
// field. A non-positive duration applies the target immediately. done runs
// once the tween completes; it does not run for replaced tweens.
func (e *Engine) animate(field *float64, to, duration float64, fn ease.TweenFunc, done func()) {
	e.cancelTween(field)
	if duration <= 0 {
		*field = to
		e.dirty = true
		if done != nil {
			done()
		}
		return
	}
	g := tweenField(field, to, float32(duration), fn)
	g.onDone = done
	e.tweens = append(e.tweens, g)
}

func (e *Engine) startGroup(g *TweenGroup) {
	for i := 0; i < g.count; i++ {
		e.cancelTween(g.fields[i])
	}
	e.tweens = append(e.tweens, g)
}

func (e *Engine) cancelTween(field *float64) {
	kept := e.tweens[:0]
	for _, g := range e.tweens {
		if !g.targets(field) {
			kept = append(kept, g)
		}
	}
	clear(e.tweens[len(kept):])
	e.tweens = kept
}

// updateTweens advances every running tween and fires completion callbacks
// after the list has been rebuilt, so callbacks may start new tweens.
func (e *Engine) updateTweens(dt float64) {
	if len(e.tweens) == 0 {
		return
	}
	running := e.tweens
	e.tweens = nil
	var finished []*TweenGroup
	for _, g := range running {
		g.Update(float32(dt))
		if g.Done {
			finished = append(finished, g)
		} else {
			e.tweens = append(e.tweens, g)
		}
	}
	e.dirty = true
	for _, g := range finished {
		if g.onDone != nil && !e.disposed {
			g.onDone()
		}
	}
}
