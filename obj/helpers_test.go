package obj

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
)

type recordingEffects struct {
	sounds    []string
	slices    map[string]float64
	splashes  []cp.Vector
	particles []string
}

func (e *recordingEffects) PlaySound(clip string) {
	e.sounds = append(e.sounds, clip)
}

func (e *recordingEffects) PlaySoundSlice(clip string, seconds float64) {
	e.sounds = append(e.sounds, clip)
	if e.slices == nil {
		e.slices = map[string]float64{}
	}
	e.slices[clip] = seconds
}

func (e *recordingEffects) SpawnSplash(pos cp.Vector, _ color.Color) {
	e.splashes = append(e.splashes, pos)
}

func (e *recordingEffects) PlayParticleEffect(effect string, _ cp.Vector) {
	e.particles = append(e.particles, effect)
}

func (e *recordingEffects) count(clip string) int {
	n := 0
	for _, s := range e.sounds {
		if s == clip {
			n++
		}
	}
	return n
}

type recordingLayers struct {
	layers map[*Fruit]string
}

func (l *recordingLayers) SetRenderLayer(f *Fruit, layer string, _ int) {
	if l.layers == nil {
		l.layers = map[*Fruit]string{}
	}
	l.layers[f] = layer
}

// seqRand replays values in order and cycles when exhausted.
type seqRand struct {
	values []float64
	draws  int
}

func (r *seqRand) Float64() float64 {
	if len(r.values) == 0 {
		r.draws++
		return 0.5
	}
	v := r.values[r.draws%len(r.values)]
	r.draws++
	return v
}

// fakeContainer logs every call in order.
type fakeContainer struct {
	calls []string
}

func (c *fakeContainer) Spawn() *Fruit            { c.calls = append(c.calls, "spawn"); return nil }
func (c *fakeContainer) RemoveMember(*Fruit)      { c.calls = append(c.calls, "remove") }
func (c *fakeContainer) Reach(cp.Vector)          { c.calls = append(c.calls, "reach") }
func (c *fakeContainer) StopReaching(detach bool) { c.calls = append(c.calls, fmt.Sprintf("stop:%v", detach)) }

func (c *fakeContainer) count(call string) int {
	n := 0
	for _, s := range c.calls {
		if s == call {
			n++
		}
	}
	return n
}

type fruitRig struct {
	fruit     *Fruit
	driver    *TweenDriver
	effects   *recordingEffects
	layers    *recordingLayers
	container *fakeContainer
	rand      *seqRand
}

func testFruitTuning() FruitTuning {
	t := DefaultFruitTuning()
	t.FloorY = -10
	return t
}

// newRestingFruit grows a fruit at pos and runs the grow tween to completion.
func newRestingFruit(pos cp.Vector, tuning FruitTuning) *fruitRig {
	rig := &fruitRig{
		driver:    NewTweenDriver(),
		effects:   &recordingEffects{},
		layers:    &recordingLayers{},
		container: &fakeContainer{},
		rand:      &seqRand{values: []float64{0.3, 0.6, 0.9}},
	}
	env := Env{Effects: rig.effects, Tweener: rig.driver, Layers: rig.layers, Rand: rig.rand}
	rig.fruit = NewFruit(pos, tuning, Variety{Name: "test"}, rig.container, env)
	rig.fruit.Grow()
	rig.driver.Update(tuning.GrowDuration + 0.01)
	return rig
}

// tick advances tweens and then the fruit, the same order Orchard uses.
func (r *fruitRig) tick(dt float64) {
	r.driver.Update(dt)
	r.fruit.OnTick(dt)
}

// detach grabs at the rest position and pulls past the threshold.
func (r *fruitRig) detach() {
	rest := r.fruit.RestPosition()
	r.fruit.OnPointerDown(rest)
	r.fruit.OnPointerDrag(rest.Add(cp.Vector{X: r.fruit.Tuning.DetachThreshold * 2}))
	r.fruit.OnTick(1.0 / 60)
}

func near(a, b cp.Vector, eps float64) bool {
	return a.Distance(b) <= eps
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
