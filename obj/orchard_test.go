package obj

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/prefabs"
)

const frame = 1.0 / 60

func newTestOrchard(t *testing.T, maxFloor int) (*Orchard, *Tree) {
	t.Helper()
	o, err := NewOrchard(&prefabs.OrchardSpec{MaxFloorFruit: maxFloor}, Env{
		Tweener: NewTweenDriver(),
		Rand:    rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("NewOrchard: %v", err)
	}
	tuning := DefaultTreeTuning()
	tuning.MaxFruit = 3
	tuning.MinInterval = 1000
	tuning.MaxInterval = 1000
	tr := o.PlantTree(cp.Vector{}, tuning, FruitTuningFromSpec(nil, o.FloorY), nil)
	return o, tr
}

// settle runs frames until every fruit has finished growing.
func settle(o *Orchard) {
	for i := 0; i < 120; i++ {
		o.Update(frame)
	}
}

// harvest pulls f off its tree, carries it sideways and lets it land.
func harvest(t *testing.T, o *Orchard, f *Fruit) {
	t.Helper()
	if got := o.PointerDown(f.Position()); got != f {
		t.Fatalf("PointerDown picked %v, want fruit %d", got, f.ID)
	}
	o.PointerDrag(f.Position().Add(cp.Vector{X: 3}))
	for i := 0; i < 120 && f.State() != FruitDrag; i++ {
		o.Update(frame)
	}
	o.PointerUp()
	for i := 0; i < 600 && f.State() != FruitOnFloor; i++ {
		o.Update(frame)
	}
	if f.State() != FruitOnFloor {
		t.Fatalf("fruit %d state = %v, want on_floor", f.ID, f.State())
	}
}

func TestOrchardFromEmbeddedSpec(t *testing.T) {
	spec, err := prefabs.LoadOrchardSpec("")
	if err != nil {
		t.Fatalf("LoadOrchardSpec: %v", err)
	}
	o, err := NewOrchard(spec, Env{Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("NewOrchard: %v", err)
	}
	if len(o.Trees()) != len(spec.Trees) {
		t.Fatalf("trees = %d, want %d", len(o.Trees()), len(spec.Trees))
	}

	for i := 0; i < 60*10; i++ {
		o.Update(frame)
	}
	if len(o.Fruits()) == 0 {
		t.Fatalf("no fruit after ten seconds")
	}
	seen := map[uint64]bool{}
	for _, f := range o.Fruits() {
		if seen[f.ID] {
			t.Fatalf("duplicate fruit id %d", f.ID)
		}
		seen[f.ID] = true
		if f.Variety.Name == "" {
			t.Fatalf("fruit %d has no variety", f.ID)
		}
	}
	for i, tr := range o.Trees() {
		if got := len(tr.Members()); got > tr.Tuning().MaxFruit {
			t.Fatalf("tree %d has %d members, cap %d", i, got, tr.Tuning().MaxFruit)
		}
	}
}

func TestOrchardRejectsInvalidSpec(t *testing.T) {
	_, err := NewOrchard(&prefabs.OrchardSpec{MaxFloorFruit: -1}, Env{})
	if err == nil {
		t.Fatalf("expected error for negative max_floor_fruit")
	}
	_, err = NewOrchard(&prefabs.OrchardSpec{Trees: []prefabs.TreePlacementSpec{{Prefab: "missing.yaml"}}}, Env{})
	if err == nil {
		t.Fatalf("expected error for missing tree prefab")
	}
}

func TestOrchardPointerRouting(t *testing.T) {
	o, tr := newTestOrchard(t, 0)
	f := tr.Spawn()
	if f == nil {
		t.Fatalf("Spawn returned nil")
	}
	if got := o.PointerDown(f.Position()); got != nil {
		t.Fatalf("growing fruit accepted a grab")
	}
	settle(o)

	if got := o.PointerDown(f.Position().Add(cp.Vector{X: 5})); got != nil {
		t.Fatalf("empty point grabbed %v", got)
	}
	if got := o.PointerDown(f.Position()); got != f {
		t.Fatalf("PointerDown = %v, want fruit", got)
	}
	if o.Grab() != f || f.State() != FruitShake {
		t.Fatalf("grab = %v state = %v, want shake", o.Grab(), f.State())
	}

	o.PointerDrag(f.RestPosition().Add(cp.Vector{X: 3}))
	o.Update(frame)
	if f.State() != FruitDetach {
		t.Fatalf("state = %v, want detach", f.State())
	}
	if len(tr.Members()) != 0 || len(o.Fruits()) != 1 {
		t.Fatalf("members=%d fruits=%d, want 0 and 1", len(tr.Members()), len(o.Fruits()))
	}

	o.PointerUp()
	if f.State() != FruitFall || o.Grab() != nil {
		t.Fatalf("state = %v grab = %v after release", f.State(), o.Grab())
	}
	o.PointerUp()
}

func TestOrchardPrunesFloorFruit(t *testing.T) {
	o, tr := newTestOrchard(t, 1)
	var removed []*Fruit
	o.OnRemove = func(f *Fruit) { removed = append(removed, f) }

	first := tr.Spawn()
	second := tr.Spawn()
	settle(o)

	harvest(t, o, first)
	if len(removed) != 0 {
		t.Fatalf("removed %d fruit under the cap", len(removed))
	}
	harvest(t, o, second)
	if len(removed) != 1 || removed[0] != first {
		t.Fatalf("removed = %v, want the oldest floor fruit", removed)
	}
	for _, f := range o.Fruits() {
		if f == first {
			t.Fatalf("pruned fruit still registered")
		}
	}
}

func TestOrchardReset(t *testing.T) {
	o, tr := newTestOrchard(t, 0)
	tr.Spawn()
	tr.Spawn()
	settle(o)
	o.PointerDown(tr.Members()[0].Position())

	o.Reset()
	if len(o.Fruits()) != 0 || len(tr.Members()) != 0 || o.Grab() != nil {
		t.Fatalf("reset left fruits=%d members=%d grab=%v", len(o.Fruits()), len(tr.Members()), o.Grab())
	}
}

func TestOrchardApplyTuningKeepsState(t *testing.T) {
	o, tr := newTestOrchard(t, 0)
	f := tr.Spawn()
	settle(o)
	o.PointerDown(f.Position())

	o.ApplyTuning(&prefabs.TreeSpec{MaxFruit: 9}, &prefabs.FruitSpec{DetachThreshold: 3})

	if f.State() != FruitShake {
		t.Fatalf("state = %v, want shake kept", f.State())
	}
	if f.Tuning.DetachThreshold != 3 {
		t.Fatalf("detach threshold = %v, want 3", f.Tuning.DetachThreshold)
	}
	if tr.Tuning().MaxFruit != 9 || tr.FruitTuning().DetachThreshold != 3 {
		t.Fatalf("tree tuning not applied: %+v", tr.Tuning())
	}
}

func TestOrchardCensus(t *testing.T) {
	o, tr := newTestOrchard(t, 0)
	tr.Spawn()
	tr.Spawn()
	census := o.Census()
	if census[FruitGrow] != 2 {
		t.Fatalf("grow census = %d, want 2", census[FruitGrow])
	}
	settle(o)
	census = o.Census()
	if census[FruitRest] != 2 {
		t.Fatalf("rest census = %v, want 2 resting", census)
	}
}
