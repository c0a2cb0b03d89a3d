package obj

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Tree spawns fruit on a timer, places them inside its crown and sways the
// crown toward a pulling grab.
type Tree struct {
	Name string

	tuning      TreeTuning
	fruitTuning FruitTuning
	variety     VarietyPicker
	env         Env

	base        cp.Vector
	crownAnchor cp.Vector
	crown       cp.Vector

	members []*Fruit

	reaching    bool
	reachOffset cp.Vector
	reachTween  TweenID
	returning   bool

	spawnClock   float64
	nextInterval float64

	// onSpawn registers new fruit with the orchard.
	onSpawn func(*Fruit)
	nextID  func() uint64
}

// TreeOption configures optional Tree collaborators.
type TreeOption func(*Tree)

// WithVariety sets the picker used for every spawned fruit.
func WithVariety(p VarietyPicker) TreeOption {
	return func(t *Tree) {
		if p != nil {
			t.variety = p
		}
	}
}

// WithSpawnHook is called with every fruit the tree creates, before it grows.
func WithSpawnHook(fn func(*Fruit)) TreeOption {
	return func(t *Tree) { t.onSpawn = fn }
}

// WithIDs supplies fruit ids. Without it a tree numbers its own fruit.
func WithIDs(next func() uint64) TreeOption {
	return func(t *Tree) {
		if next != nil {
			t.nextID = next
		}
	}
}

func NewTree(base cp.Vector, tuning TreeTuning, fruitTuning FruitTuning, env Env, opts ...TreeOption) *Tree {
	t := &Tree{
		tuning:      tuning,
		fruitTuning: fruitTuning,
		env:         env.withDefaults(),
		base:        base,
	}
	t.variety = StaticVariety{Name: "default", Color: fruitTuning.Color}
	var counter uint64
	t.nextID = func() uint64 {
		counter++
		return counter
	}
	for _, opt := range opts {
		opt(t)
	}
	t.crownAnchor = base.Add(tuning.SpawnOffset.Mult(t.scale()))
	t.crown = t.crownAnchor
	t.nextInterval = t.drawInterval()
	return t
}

func (t *Tree) scale() float64 {
	if t.tuning.Scale <= 0 {
		return 1
	}
	return t.tuning.Scale
}

func (t *Tree) drawInterval() float64 {
	return randRange(t.env.Rand, t.tuning.MinInterval, t.tuning.MaxInterval)
}

// Update advances the spawn timer. A due spawn that is refused at capacity
// still restarts the timer.
func (t *Tree) Update(dt float64) {
	if dt <= 0 {
		return
	}
	t.spawnClock += dt
	if t.spawnClock <= t.nextInterval {
		return
	}
	t.spawnClock = 0
	t.nextInterval = t.drawInterval()
	t.Spawn()
}

// Spawn grows a fruit inside the crown. It returns nil when the tree is full.
func (t *Tree) Spawn() *Fruit {
	if len(t.members) >= t.tuning.MaxFruit {
		return nil
	}

	pos := t.FindSpawnPoint(t.crownAnchor)
	variety := t.variety.Pick(len(t.members), t.tuning.MaxFruit)
	f := NewFruit(pos, t.fruitTuning, variety, t, t.env)
	f.ID = t.nextID()
	t.AddMember(f)
	if t.onSpawn != nil {
		t.onSpawn(f)
	}
	f.Grow()
	return f
}

// FindSpawnPoint picks a point in the spawn disc around center, retrying to
// keep clear of existing members. When every attempt overlaps, the last
// candidate is used anyway.
func (t *Tree) FindSpawnPoint(center cp.Vector) cp.Vector {
	radius := t.tuning.SpawnRadius * t.scale()
	candidate := randomInDisc(t.env.Rand, center, radius)
	if len(t.members) == 0 {
		return candidate
	}

	attempts := t.tuning.PlacementAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			candidate = randomInDisc(t.env.Rand, center, radius)
		}
		if _, d, _ := t.NearestMember(candidate); d > t.tuning.OverlapMargin {
			return candidate
		}
	}
	return candidate
}

// NearestMember returns the member closest to p. With no members it returns
// (nil, +Inf, false).
func (t *Tree) NearestMember(p cp.Vector) (*Fruit, float64, bool) {
	var best *Fruit
	bestDist := math.Inf(1)
	for _, m := range t.members {
		if d := m.Position().Distance(p); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, bestDist, best != nil
}

func (t *Tree) AddMember(f *Fruit) {
	if f == nil {
		return
	}
	for _, m := range t.members {
		if m == f {
			return
		}
	}
	t.members = append(t.members, f)
}

func (t *Tree) RemoveMember(f *Fruit) {
	for i, m := range t.members {
		if m == f {
			t.members = append(t.members[:i], t.members[i+1:]...)
			return
		}
	}
}

// Reach bends the crown toward target. The first call of a grab remembers the
// offset so the crown does not jump.
func (t *Tree) Reach(target cp.Vector) {
	if !t.reaching {
		t.cancelReturn()
		t.reaching = true
		t.reachOffset = target.Sub(t.crownAnchor)
	}
	t.crown = t.crownAnchor.Lerp(target.Sub(t.reachOffset), t.tuning.ReachScale)
}

// StopReaching eases the crown back to rest. A detach also rustles the leaves.
func (t *Tree) StopReaching(detached bool) {
	t.reaching = false
	t.cancelReturn()
	t.returning = true
	t.reachTween = t.env.Tweener.Animate(Tween{
		From:     t.crown,
		To:       t.crownAnchor,
		Duration: t.tuning.ReachReturn,
		Ease:     EaseOutQuad,
		Apply:    func(v cp.Vector) { t.crown = v },
		OnComplete: func() {
			t.returning = false
		},
	})
	if detached {
		t.env.Effects.PlayParticleEffect(EffectLeavesRustle, t.crown)
	}
}

func (t *Tree) cancelReturn() {
	if !t.returning {
		return
	}
	t.env.Tweener.Cancel(t.reachTween)
	t.returning = false
}

// Reset drops every member and restarts the spawn timer.
func (t *Tree) Reset() {
	t.cancelReturn()
	t.members = nil
	t.reaching = false
	t.crown = t.crownAnchor
	t.spawnClock = 0
	t.nextInterval = t.drawInterval()
}

// SetTuning swaps tuning in place. Members and timers are kept.
func (t *Tree) SetTuning(tuning TreeTuning) {
	t.tuning = tuning
	t.crownAnchor = t.base.Add(tuning.SpawnOffset.Mult(t.scale()))
	if !t.reaching && !t.returning {
		t.crown = t.crownAnchor
	}
}

// SetFruitTuning applies to future spawns and to every attached member.
func (t *Tree) SetFruitTuning(tuning FruitTuning) {
	t.fruitTuning = tuning
	for _, m := range t.members {
		m.SetTuning(tuning)
	}
}

func (t *Tree) SetVariety(p VarietyPicker) {
	if p != nil {
		t.variety = p
	}
}

func (t *Tree) Members() []*Fruit {
	return t.members
}

func (t *Tree) Base() cp.Vector {
	return t.base
}

func (t *Tree) Crown() cp.Vector {
	return t.crown
}

func (t *Tree) CrownAnchor() cp.Vector {
	return t.crownAnchor
}

func (t *Tree) Reaching() bool {
	return t.reaching
}

func (t *Tree) Tuning() TreeTuning {
	return t.tuning
}

func (t *Tree) FruitTuning() FruitTuning {
	return t.fruitTuning
}
