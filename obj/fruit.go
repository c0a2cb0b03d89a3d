package obj

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

type FruitState int

const (
	FruitGrow FruitState = iota
	FruitRest
	FruitShake
	FruitDetach
	FruitDrag
	FruitFall
	FruitBouncing
	FruitOnFloor
)

var fruitStateNames = [...]string{"grow", "rest", "shake", "detach", "drag", "fall", "bouncing", "on_floor"}

func (s FruitState) String() string {
	if s < 0 || int(s) >= len(fruitStateNames) {
		return "unknown"
	}
	return fruitStateNames[s]
}

// Variety is the look picked for a fruit when its tree spawns it.
type Variety struct {
	Name  string
	Color color.Color
}

// Fruit is one fruit's interaction state machine. Hosts drive it through
// OnTick and the pointer methods; everything else is read-only.
type Fruit struct {
	ID      uint64
	Tuning  FruitTuning
	Variety Variety

	state fruitState
	env   Env
	// container is nil once the fruit detaches; origin never changes.
	container FruitContainer
	origin    FruitContainer

	pos        cp.Vector
	restPos    cp.Vector
	dragOffset cp.Vector
	pointer    cp.Vector
	scale      float64

	velocity      cp.Vector
	throwVelocity cp.Vector
	prevPos       cp.Vector

	growing    bool
	bounceLeft int
	motion     []TweenID
}

// NewFruit creates a fruit in Grow at pos. Call Grow to start the scale-in.
func NewFruit(pos cp.Vector, tuning FruitTuning, variety Variety, container FruitContainer, env Env) *Fruit {
	if variety.Color == nil {
		variety.Color = tuning.Color
	}
	return &Fruit{
		Tuning:    tuning,
		Variety:   variety,
		state:     fruitStateGrow,
		env:       env.withDefaults(),
		container: container,
		origin:    container,
		pos:       pos,
		restPos:   pos,
		prevPos:   pos,
	}
}

// Grow starts the scale-in animation. Only the first call has an effect.
func (f *Fruit) Grow() {
	if f.growing || f.state != fruitStateGrow {
		return
	}
	f.growing = true
	f.layer(LayerFruit)
	f.state.Enter(f)
}

func (f *Fruit) OnTick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	f.state.Update(f, dt)
}

// OnPointerDown grabs the fruit at world point p. Only Rest and OnFloor
// accept a grab; every other state ignores it.
func (f *Fruit) OnPointerDown(p cp.Vector) {
	f.state.PointerDown(f, p)
}

// OnPointerDrag records the latest pointer position. The state machine reads
// it on the next tick.
func (f *Fruit) OnPointerDrag(p cp.Vector) {
	f.pointer = p
}

func (f *Fruit) OnPointerUp() {
	f.state.PointerUp(f)
}

func (f *Fruit) State() FruitState {
	return f.state.Kind()
}

func (f *Fruit) Position() cp.Vector {
	return f.pos
}

func (f *Fruit) RestPosition() cp.Vector {
	return f.restPos
}

func (f *Fruit) DragOffset() cp.Vector {
	return f.dragOffset
}

// Scale is the cosmetic grow scale.
func (f *Fruit) Scale() float64 {
	return f.scale
}

func (f *Fruit) Velocity() cp.Vector {
	return f.velocity
}

func (f *Fruit) Container() FruitContainer {
	return f.container
}

// Target is where the grab point wants the fruit to be.
func (f *Fruit) Target() cp.Vector {
	return f.pointer.Add(f.dragOffset)
}

// Contains reports whether p hits the fruit.
func (f *Fruit) Contains(p cp.Vector) bool {
	return f.pos.Distance(p) <= f.Tuning.Radius
}

func (f *Fruit) AcceptsGrab() bool {
	k := f.State()
	return k == FruitRest || k == FruitOnFloor
}

// ShakeRadius grows linearly with how far the grab has been pulled from the
// rest position, reaching ShakeAmount at the detach threshold.
func (f *Fruit) ShakeRadius(pull float64) float64 {
	if pull <= 0 || f.Tuning.DetachThreshold <= 0 {
		return 0
	}
	return f.Tuning.ShakeAmount * pull / f.Tuning.DetachThreshold
}

// SetTuning swaps tuning in place; the current state is kept.
func (f *Fruit) SetTuning(t FruitTuning) {
	f.Tuning = t
}

// detachFromContainer clears the back-reference and tells the old owner. The
// owner hears about the detach before the removal.
func (f *Fruit) detachFromContainer() {
	c := f.container
	f.container = nil
	if c == nil {
		return
	}
	c.StopReaching(true)
	c.RemoveMember(f)
}

func (f *Fruit) setState(s fruitState) {
	f.state.Exit(f)
	f.cancelMotion()
	f.state = s
	s.Enter(f)
}

func (f *Fruit) animate(t Tween) {
	f.motion = append(f.motion, f.env.Tweener.Animate(t))
}

func (f *Fruit) cancelMotion() {
	for _, id := range f.motion {
		f.env.Tweener.Cancel(id)
	}
	f.motion = f.motion[:0]
}

func (f *Fruit) beginGrab(p cp.Vector) {
	f.pointer = p
	f.dragOffset = f.pos.Sub(p)
	f.prevPos = f.pos
	f.throwVelocity = cp.Vector{}
}

// seek moves toward target at most speed*dt, or straight onto it when speed
// is not positive.
func (f *Fruit) seek(target cp.Vector, speed, dt float64) {
	if speed <= 0 {
		f.pos = target
		return
	}
	f.pos = f.pos.LerpConst(target, speed*dt)
}

// trackThrow keeps an exponentially smoothed history of the fruit's own
// velocity while it is carried, used as the throw impulse on release.
func (f *Fruit) trackThrow(dt float64) {
	if dt <= 0 {
		return
	}
	frame := f.pos.Sub(f.prevPos).Mult(1 / dt)
	blend := f.Tuning.ThrowBlend
	f.throwVelocity = f.throwVelocity.Mult(blend).Add(frame.Mult(1 - blend))
	f.prevPos = f.pos
}

func (f *Fruit) layer(name string) {
	f.env.Layers.SetRenderLayer(f, name, int(f.ID))
}
