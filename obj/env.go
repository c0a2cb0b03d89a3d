package obj

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
)

// Effect names requested through Effects.PlayParticleEffect.
const (
	EffectLeavesRustle = "leaves_rustle"
)

// Render layers advised through Layers.SetRenderLayer.
const (
	LayerFruit   = "fruit"
	LayerHeld    = "held"
	LayerFalling = "falling"
	LayerGround  = "ground"
)

// Effects receives fire-and-forget audio and visual requests.
type Effects interface {
	PlaySound(clip string)
	// PlaySoundSlice plays a seconds-long stretch of clip starting at a
	// random offset, or the whole clip when it is shorter.
	PlaySoundSlice(clip string, seconds float64)
	SpawnSplash(pos cp.Vector, c color.Color)
	PlayParticleEffect(effect string, pos cp.Vector)
}

// Layers is advisory; it has no effect on fruit behavior.
type Layers interface {
	SetRenderLayer(f *Fruit, layer string, order int)
}

// Rand is the injected random source. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Env bundles the collaborators shared by every tree and fruit in an orchard.
type Env struct {
	Effects Effects
	Tweener Tweener
	Layers  Layers
	Rand    Rand
}

type nopEffects struct{}

func (nopEffects) PlaySound(string)                     {}
func (nopEffects) PlaySoundSlice(string, float64)       {}
func (nopEffects) SpawnSplash(cp.Vector, color.Color)   {}
func (nopEffects) PlayParticleEffect(string, cp.Vector) {}

type nopLayers struct{}

func (nopLayers) SetRenderLayer(*Fruit, string, int) {}

// withDefaults fills unset collaborators. A missing Rand gets a fixed seed so
// runs stay reproducible.
func (e Env) withDefaults() Env {
	if e.Effects == nil {
		e.Effects = nopEffects{}
	}
	if e.Layers == nil {
		e.Layers = nopLayers{}
	}
	if e.Tweener == nil {
		e.Tweener = NewTweenDriver()
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(1))
	}
	return e
}

// randRange draws uniformly from [lo, hi).
func randRange(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// randomInDisc draws a point uniformly inside a disc of the given radius.
func randomInDisc(r Rand, center cp.Vector, radius float64) cp.Vector {
	if radius <= 0 {
		return center
	}
	dist := radius * math.Sqrt(r.Float64())
	angle := 2 * math.Pi * r.Float64()
	return center.Add(cp.ForAngle(angle).Mult(dist))
}
