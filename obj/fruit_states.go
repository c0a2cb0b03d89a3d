package obj

import "github.com/jakecoffman/cp"

// fruitState is one node of the fruit state machine. States are stateless
// singletons; all data lives on the Fruit.
type fruitState interface {
	Kind() FruitState
	Enter(f *Fruit)
	Exit(f *Fruit)
	Update(f *Fruit, dt float64)
	PointerDown(f *Fruit, p cp.Vector)
	PointerUp(f *Fruit)
}

// Fruit state singletons (avoid allocations on transitions).
var (
	fruitStateGrow     fruitState = &growState{}
	fruitStateRest     fruitState = &restState{}
	fruitStateShake    fruitState = &shakeState{}
	fruitStateDetach   fruitState = &detachState{}
	fruitStateDrag     fruitState = &dragState{}
	fruitStateFall     fruitState = &fallState{}
	fruitStateBouncing fruitState = &bouncingState{}
	fruitStateOnFloor  fruitState = &onFloorState{}
)

// ignoresInput is embedded by states that drop pointer events.
type ignoresInput struct{}

func (ignoresInput) PointerDown(*Fruit, cp.Vector) {}
func (ignoresInput) PointerUp(*Fruit)              {}

type growState struct{ ignoresInput }

type restState struct{}

type shakeState struct{}

type detachState struct{}

type dragState struct{}

type fallState struct{ ignoresInput }

type bouncingState struct{ ignoresInput }

type onFloorState struct{}

func (growState) Kind() FruitState { return FruitGrow }
func (growState) Enter(f *Fruit) {
	f.scale = 0
	f.env.Effects.PlaySoundSlice(f.Tuning.GrowSound, f.Tuning.GrowDuration)
	f.animate(Tween{
		From:     cp.Vector{},
		To:       cp.Vector{X: 1, Y: 1},
		Duration: f.Tuning.GrowDuration,
		Ease:     EaseOutBack,
		Apply:    func(v cp.Vector) { f.scale = v.X },
		OnComplete: func() {
			if f.state != fruitStateGrow {
				return
			}
			f.restPos = f.pos
			f.setState(fruitStateRest)
		},
	})
}
func (growState) Exit(f *Fruit)               { f.scale = 1 }
func (growState) Update(f *Fruit, dt float64) {}

func (restState) Kind() FruitState { return FruitRest }
func (restState) Enter(f *Fruit) {
	f.layer(LayerFruit)
	if f.pos == f.restPos {
		return
	}
	f.animate(Tween{
		From:     f.pos,
		To:       f.restPos,
		Duration: f.Tuning.RestReturn,
		Ease:     EaseOutQuad,
		Apply:    func(v cp.Vector) { f.pos = v },
	})
}
func (restState) Exit(f *Fruit)               {}
func (restState) Update(f *Fruit, dt float64) {}
func (restState) PointerDown(f *Fruit, p cp.Vector) {
	f.beginGrab(p)
	f.setState(fruitStateShake)
}
func (restState) PointerUp(f *Fruit) {}

func (shakeState) Kind() FruitState { return FruitShake }
func (shakeState) Enter(f *Fruit) {
	f.layer(LayerHeld)
}
func (shakeState) Exit(f *Fruit) {}
func (shakeState) Update(f *Fruit, dt float64) {
	target := f.Target()
	pull := target.Distance(f.restPos)
	if pull > f.Tuning.DetachThreshold {
		f.setState(fruitStateDetach)
		return
	}
	if f.container != nil {
		f.container.Reach(target)
	}
	// nervous jitter around a point partway toward the pull
	anchor := f.restPos.Lerp(target, f.Tuning.ShakeBlend)
	f.pos = randomInDisc(f.env.Rand, anchor, f.ShakeRadius(pull))
}
func (shakeState) PointerDown(f *Fruit, p cp.Vector) {}
func (shakeState) PointerUp(f *Fruit) {
	if f.container != nil {
		f.container.StopReaching(false)
	}
	f.setState(fruitStateRest)
}

func (detachState) Kind() FruitState { return FruitDetach }
func (detachState) Enter(f *Fruit) {
	f.detachFromContainer()
	f.layer(LayerHeld)
	f.env.Effects.PlaySound(f.Tuning.SnapSound)
	f.prevPos = f.pos
	f.throwVelocity = cp.Vector{}
}
func (detachState) Exit(f *Fruit) {}
func (detachState) Update(f *Fruit, dt float64) {
	target := f.Target()
	f.seek(target, f.Tuning.DetachSpeed, dt)
	f.trackThrow(dt)
	if f.pos.Distance(target) < f.Tuning.SnapEpsilon {
		f.setState(fruitStateDrag)
	}
}
func (detachState) PointerDown(f *Fruit, p cp.Vector) {}
func (detachState) PointerUp(f *Fruit) {
	f.setState(fruitStateFall)
}

func (dragState) Kind() FruitState { return FruitDrag }
func (dragState) Enter(f *Fruit) {
	f.layer(LayerHeld)
}
func (dragState) Exit(f *Fruit) {}
func (dragState) Update(f *Fruit, dt float64) {
	target := f.Target()
	if f.Tuning.DragMode == DragInstant {
		f.pos = target
	} else {
		f.seek(target, f.Tuning.DragSpeed, dt)
	}
	f.trackThrow(dt)
}
func (dragState) PointerDown(f *Fruit, p cp.Vector) {}
func (dragState) PointerUp(f *Fruit) {
	f.setState(fruitStateFall)
}

func (fallState) Kind() FruitState { return FruitFall }
func (fallState) Enter(f *Fruit) {
	f.layer(LayerFalling)
	f.velocity = cp.Vector{}
	if f.Tuning.FallMode == FallMomentum {
		v := f.throwVelocity.Mult(f.Tuning.ThrowScale)
		if f.Tuning.MaxThrowSpeed > 0 {
			v = v.Clamp(f.Tuning.MaxThrowSpeed)
		}
		f.velocity = v
	}
}
func (fallState) Exit(f *Fruit) {
	f.velocity = cp.Vector{}
}
func (fallState) Update(f *Fruit, dt float64) {
	if f.Tuning.FallMode == FallConstant {
		f.pos.Y -= f.Tuning.FallSpeed * dt
	} else {
		f.velocity.Y -= f.Tuning.Gravity * dt
		f.pos = f.pos.Add(f.velocity.Mult(dt))
	}
	if f.pos.Y <= f.Tuning.FloorY {
		f.pos.Y = f.Tuning.FloorY
		f.setState(fruitStateBouncing)
	}
}

func (bouncingState) Kind() FruitState { return FruitBouncing }
func (bouncingState) Enter(f *Fruit) {
	f.env.Effects.SpawnSplash(f.pos, f.Variety.Color)
	f.env.Effects.PlaySound(f.Tuning.ImpactSound)

	start := f.pos
	sign := 1.0
	if f.env.Rand.Float64() < 0.5 {
		sign = -1
	}
	peak := cp.Vector{X: start.X, Y: start.Y + f.Tuning.BounceHeight}
	f.bounceLeft = 2

	f.animate(Tween{
		From:       start,
		To:         cp.Vector{X: start.X + sign*f.Tuning.BounceDrift, Y: start.Y},
		Duration:   f.Tuning.BounceRise + f.Tuning.BounceFall,
		Ease:       EaseOutQuad,
		Apply:      func(v cp.Vector) { f.pos.X = v.X },
		OnComplete: func() { bounceStep(f) },
	})
	f.animate(Tween{
		From:     start,
		To:       peak,
		Duration: f.Tuning.BounceRise,
		Ease:     EaseOutQuad,
		Apply:    func(v cp.Vector) { f.pos.Y = v.Y },
		OnComplete: func() {
			if f.state != fruitStateBouncing {
				return
			}
			f.animate(Tween{
				From:       peak,
				To:         start,
				Duration:   f.Tuning.BounceFall,
				Ease:       EaseInQuad,
				Apply:      func(v cp.Vector) { f.pos.Y = v.Y },
				OnComplete: func() { bounceStep(f) },
			})
		},
	})
}
func (bouncingState) Exit(f *Fruit)               {}
func (bouncingState) Update(f *Fruit, dt float64) {}

// bounceStep commits to OnFloor once both the hop and the drift have landed.
func bounceStep(f *Fruit) {
	if f.state != fruitStateBouncing {
		return
	}
	f.bounceLeft--
	if f.bounceLeft > 0 {
		return
	}
	f.setState(fruitStateOnFloor)
}

func (onFloorState) Kind() FruitState { return FruitOnFloor }
func (onFloorState) Enter(f *Fruit) {
	f.restPos = f.pos
	f.layer(LayerGround)
}
func (onFloorState) Exit(f *Fruit)               {}
func (onFloorState) Update(f *Fruit, dt float64) {}
func (onFloorState) PointerDown(f *Fruit, p cp.Vector) {
	f.beginGrab(p)
	f.setState(fruitStateDrag)
}
func (onFloorState) PointerUp(f *Fruit) {}
