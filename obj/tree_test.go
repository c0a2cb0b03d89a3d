package obj

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

type treeRig struct {
	tree    *Tree
	driver  *TweenDriver
	effects *recordingEffects
	rand    *seqRand
}

func newTreeRig(tuning TreeTuning, values ...float64) *treeRig {
	rig := &treeRig{
		driver:  NewTweenDriver(),
		effects: &recordingEffects{},
		rand:    &seqRand{values: values},
	}
	env := Env{Effects: rig.effects, Tweener: rig.driver, Rand: rig.rand}
	rig.tree = NewTree(cp.Vector{}, tuning, testFruitTuning(), env)
	return rig
}

// replay returns a random source positioned after the first n draws of values.
func replay(values []float64, n int) *seqRand {
	return &seqRand{values: values, draws: n}
}

func TestFindSpawnPointEmptyTakesFirstCandidate(t *testing.T) {
	values := []float64{0.5, 0.25, 0.75}
	rig := newTreeRig(DefaultTreeTuning(), values...)
	center := cp.Vector{X: 2, Y: 3}

	got := rig.tree.FindSpawnPoint(center)

	want := randomInDisc(replay(values, 1), center, rig.tree.tuning.SpawnRadius)
	if got != want {
		t.Fatalf("FindSpawnPoint = %v, want first candidate %v", got, want)
	}
	if rig.rand.draws != 3 {
		t.Fatalf("random draws = %d, want 3 (interval plus one candidate)", rig.rand.draws)
	}
}

func TestFindSpawnPointPlacement(t *testing.T) {
	values := make([]float64, 21)
	for i := range values {
		values[i] = float64(i+1) / 25
	}

	cases := []struct {
		name      string
		member    cp.Vector
		margin    float64
		wantDraws int
	}{
		{"clear_first_try", cp.Vector{X: 100, Y: 100}, 1, 3},
		{"exhausted_returns_last", cp.Vector{}, 100, 21},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tuning := DefaultTreeTuning()
			tuning.OverlapMargin = c.margin
			tuning.PlacementAttempts = 10
			rig := newTreeRig(tuning, values...)
			rig.tree.AddMember(NewFruit(c.member, testFruitTuning(), Variety{}, rig.tree, Env{}))

			got := rig.tree.FindSpawnPoint(cp.Vector{})

			want := randomInDisc(replay(values, c.wantDraws-2), cp.Vector{}, tuning.SpawnRadius)
			if got != want {
				t.Fatalf("FindSpawnPoint = %v, want %v", got, want)
			}
			if rig.rand.draws != c.wantDraws {
				t.Fatalf("random draws = %d, want %d", rig.rand.draws, c.wantDraws)
			}
		})
	}
}

func TestNearestMember(t *testing.T) {
	rig := newTreeRig(DefaultTreeTuning())

	f, d, ok := rig.tree.NearestMember(cp.Vector{})
	if f != nil || ok || !math.IsInf(d, 1) {
		t.Fatalf("empty NearestMember = (%v, %v, %v), want (nil, +Inf, false)", f, d, ok)
	}

	a := NewFruit(cp.Vector{X: 1}, testFruitTuning(), Variety{}, rig.tree, Env{})
	b := NewFruit(cp.Vector{X: 4}, testFruitTuning(), Variety{}, rig.tree, Env{})
	rig.tree.AddMember(a)
	rig.tree.AddMember(b)

	f, d, ok = rig.tree.NearestMember(cp.Vector{X: 3})
	if f != b || !ok || !approx(d, 1) {
		t.Fatalf("NearestMember = (%v, %v, %v), want b at 1", f, d, ok)
	}
}

func TestMembership(t *testing.T) {
	rig := newTreeRig(DefaultTreeTuning())
	f := NewFruit(cp.Vector{}, testFruitTuning(), Variety{}, rig.tree, Env{})

	rig.tree.AddMember(f)
	rig.tree.AddMember(f)
	if got := len(rig.tree.Members()); got != 1 {
		t.Fatalf("members after duplicate add = %d, want 1", got)
	}

	rig.tree.RemoveMember(f)
	rig.tree.RemoveMember(f)
	if got := len(rig.tree.Members()); got != 0 {
		t.Fatalf("members after remove = %d, want 0", got)
	}
}

func TestSpawnRefusedAtCapacity(t *testing.T) {
	tuning := DefaultTreeTuning()
	tuning.MaxFruit = 1
	tuning.MinInterval = 1
	tuning.MaxInterval = 1
	rig := newTreeRig(tuning)

	rig.tree.Update(1.1)
	if got := len(rig.tree.Members()); got != 1 {
		t.Fatalf("members after first interval = %d, want 1", got)
	}

	rig.tree.Update(1.1)
	if got := len(rig.tree.Members()); got != 1 {
		t.Fatalf("members after refused spawn = %d, want 1", got)
	}
	if rig.tree.spawnClock != 0 {
		t.Fatalf("spawn clock = %v, want reset to 0", rig.tree.spawnClock)
	}
	if f := rig.tree.Spawn(); f != nil {
		t.Fatalf("Spawn at capacity returned %v, want nil", f)
	}
}

func TestCapacityOneSpawnScenario(t *testing.T) {
	values := []float64{0.5, 0.25, 0.75, 0.1}
	tuning := DefaultTreeTuning()
	tuning.MaxFruit = 1
	tuning.MinInterval = 1
	tuning.MaxInterval = 3
	rig := newTreeRig(tuning, values...)

	rig.tree.Update(1.5)
	if got := len(rig.tree.Members()); got != 0 {
		t.Fatalf("members before interval = %d, want 0", got)
	}

	// interval is 1 + 0.5*2 = 2
	rig.tree.Update(1)
	members := rig.tree.Members()
	if len(members) != 1 {
		t.Fatalf("members after interval = %d, want 1", len(members))
	}
	f := members[0]
	if f.State() != FruitGrow {
		t.Fatalf("new fruit state = %v, want grow", f.State())
	}
	// the redraw of the interval precedes placement
	want := randomInDisc(replay(values, 2), rig.tree.CrownAnchor(), tuning.SpawnRadius)
	if f.Position() != want {
		t.Fatalf("fruit at %v, want %v", f.Position(), want)
	}
	if f.Container() != FruitContainer(rig.tree) {
		t.Fatalf("fruit container is not its tree")
	}
	if got := rig.effects.count(f.Tuning.GrowSound); got != 1 {
		t.Fatalf("grow sound played %d times, want 1", got)
	}
}

func TestReach(t *testing.T) {
	tuning := DefaultTreeTuning()
	tuning.ReachScale = 0.2
	rig := newTreeRig(tuning)
	tr := rig.tree
	anchor := tr.CrownAnchor()

	tr.Reach(anchor.Add(cp.Vector{X: 1}))
	if !tr.Reaching() {
		t.Fatalf("tree should be reaching")
	}
	if !near(tr.Crown(), anchor, 1e-9) {
		t.Fatalf("first reach moved crown to %v, want %v", tr.Crown(), anchor)
	}

	tr.Reach(anchor.Add(cp.Vector{X: 2}))
	if want := anchor.Add(cp.Vector{X: 0.2}); !near(tr.Crown(), want, 1e-9) {
		t.Fatalf("crown = %v, want %v", tr.Crown(), want)
	}

	tr.StopReaching(false)
	if tr.Reaching() {
		t.Fatalf("tree should stop reaching")
	}
	if len(rig.effects.particles) != 0 {
		t.Fatalf("particles = %v, want none without detach", rig.effects.particles)
	}
	rig.driver.Update(tuning.ReachReturn + 0.01)
	if tr.Crown() != anchor {
		t.Fatalf("crown after return = %v, want %v", tr.Crown(), anchor)
	}

	tr.Reach(anchor.Add(cp.Vector{X: 1}))
	tr.StopReaching(true)
	tr.Reach(anchor.Add(cp.Vector{X: 1}))
	if rig.driver.Len() != 0 {
		t.Fatalf("crown return tween should be cancelled by a new reach")
	}
	if len(rig.effects.particles) != 1 || rig.effects.particles[0] != EffectLeavesRustle {
		t.Fatalf("particles = %v, want one %q", rig.effects.particles, EffectLeavesRustle)
	}
}

func TestDetachLeavesTree(t *testing.T) {
	rig := newTreeRig(DefaultTreeTuning())
	f := rig.tree.Spawn()
	rig.driver.Update(f.Tuning.GrowDuration + 0.01)
	if f.State() != FruitRest {
		t.Fatalf("state = %v, want rest", f.State())
	}

	f.OnPointerDown(f.Position())
	f.OnPointerDrag(f.Position().Add(cp.Vector{X: 0.5}))
	f.OnTick(1.0 / 60)
	if !rig.tree.Reaching() {
		t.Fatalf("shake should make the tree reach")
	}

	f.OnPointerDrag(f.RestPosition().Add(cp.Vector{X: 3}))
	f.OnTick(1.0 / 60)
	if f.State() != FruitDetach {
		t.Fatalf("state = %v, want detach", f.State())
	}
	if len(rig.tree.Members()) != 0 {
		t.Fatalf("detached fruit still a member")
	}
	if rig.tree.Reaching() {
		t.Fatalf("tree still reaching after detach")
	}
	if len(rig.effects.particles) != 1 {
		t.Fatalf("particles = %v, want one rustle", rig.effects.particles)
	}
}

func TestTreeReset(t *testing.T) {
	rig := newTreeRig(DefaultTreeTuning())
	rig.tree.Spawn()
	rig.tree.Spawn()
	rig.tree.Reach(cp.Vector{X: 9})

	rig.tree.Reset()
	if len(rig.tree.Members()) != 0 || rig.tree.Reaching() {
		t.Fatalf("reset left members=%d reaching=%v", len(rig.tree.Members()), rig.tree.Reaching())
	}
	if rig.tree.Crown() != rig.tree.CrownAnchor() {
		t.Fatalf("crown = %v, want anchor", rig.tree.Crown())
	}
}
