package obj

import (
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type TweenID uint64

// Ease names an easing curve. Unknown names fall back to linear.
type Ease string

const (
	EaseLinear   Ease = "linear"
	EaseInQuad   Ease = "in_quad"
	EaseOutQuad  Ease = "out_quad"
	EaseInOutSin Ease = "in_out_sine"
	EaseOutBack  Ease = "out_back"
	EaseOutCubic Ease = "out_cubic"
)

var easeFuncs = map[Ease]ease.TweenFunc{
	EaseLinear:   ease.Linear,
	EaseInQuad:   ease.InQuad,
	EaseOutQuad:  ease.OutQuad,
	EaseInOutSin: ease.InOutSine,
	EaseOutBack:  ease.OutBack,
	EaseOutCubic: ease.OutCubic,
}

func (e Ease) fn() ease.TweenFunc {
	if f, ok := easeFuncs[e]; ok {
		return f
	}
	return ease.Linear
}

// Tween describes one cosmetic interpolation. Apply receives every
// intermediate value and the exact To value on the final frame, after which
// OnComplete fires once.
type Tween struct {
	From       cp.Vector
	To         cp.Vector
	Duration   float64
	Ease       Ease
	Apply      func(cp.Vector)
	OnComplete func()
}

// Tweener runs cosmetic animations on behalf of fruit and trees. A cancelled
// tween never calls Apply or OnComplete again.
type Tweener interface {
	Animate(t Tween) TweenID
	Cancel(id TweenID)
}

type runningTween struct {
	spec Tween
	x    *gween.Tween
	y    *gween.Tween
}

// TweenDriver is a frame-stepped Tweener. Tweens started from a completion
// callback begin advancing on the next Update.
type TweenDriver struct {
	nextID TweenID
	active map[TweenID]*runningTween
	order  []TweenID
}

func NewTweenDriver() *TweenDriver {
	return &TweenDriver{active: map[TweenID]*runningTween{}}
}

func (d *TweenDriver) Animate(t Tween) TweenID {
	d.nextID++
	id := d.nextID
	duration := float32(t.Duration)
	if duration < 0 {
		duration = 0
	}
	fn := t.Ease.fn()
	d.active[id] = &runningTween{
		spec: t,
		x:    gween.New(float32(t.From.X), float32(t.To.X), duration, fn),
		y:    gween.New(float32(t.From.Y), float32(t.To.Y), duration, fn),
	}
	d.order = append(d.order, id)
	return id
}

func (d *TweenDriver) Cancel(id TweenID) {
	if _, ok := d.active[id]; !ok {
		return
	}
	delete(d.active, id)
	for i, other := range d.order {
		if other == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Active reports whether id is still running.
func (d *TweenDriver) Active(id TweenID) bool {
	_, ok := d.active[id]
	return ok
}

func (d *TweenDriver) Len() int {
	return len(d.order)
}

// Update advances every running tween by dt seconds in start order.
func (d *TweenDriver) Update(dt float64) {
	if len(d.order) == 0 {
		return
	}
	ids := append([]TweenID(nil), d.order...)
	for _, id := range ids {
		rt, ok := d.active[id]
		if !ok {
			continue
		}
		x, doneX := rt.x.Update(float32(dt))
		y, doneY := rt.y.Update(float32(dt))
		if doneX && doneY {
			d.Cancel(id)
			if rt.spec.Apply != nil {
				rt.spec.Apply(rt.spec.To)
			}
			if rt.spec.OnComplete != nil {
				rt.spec.OnComplete()
			}
			continue
		}
		if rt.spec.Apply != nil {
			rt.spec.Apply(cp.Vector{X: float64(x), Y: float64(y)})
		}
	}
}
