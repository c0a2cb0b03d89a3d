package obj

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/prefabs"
)

// Orchard is the host-side registry: it owns the trees, every fruit they
// have spawned, and the single active grab.
type Orchard struct {
	Name          string
	FloorY        float64
	MaxFloorFruit int

	// OnRemove is called for every fruit dropped from the registry.
	OnRemove func(*Fruit)

	env    Env
	trees  []*Tree
	plants []prefabs.TreePlacementSpec
	fruits []*Fruit
	grab   *Fruit
	nextID uint64
}

// NewOrchard plants every tree placement in spec. Tree and fruit prefabs are
// loaded through the prefabs package; a broken variety script only logs.
func NewOrchard(spec *prefabs.OrchardSpec, env Env) (*Orchard, error) {
	if spec == nil {
		spec = &prefabs.OrchardSpec{}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	o := &Orchard{
		Name:          spec.Name,
		FloorY:        spec.FloorY,
		MaxFloorFruit: spec.MaxFloorFruit,
		env:           env.withDefaults(),
	}

	cache := newTreePrefabCache()
	for i, placement := range spec.Trees {
		p, err := cache.load(placement.Prefab)
		if err != nil {
			return nil, fmt.Errorf("orchard: trees[%d]: %w", i, err)
		}
		tuning := TreeTuningFromSpec(p.tree, placement.Scale)
		fruit := FruitTuningFromSpec(p.fruit, o.FloorY)
		t := o.PlantTree(cp.Vector{X: placement.X, Y: placement.Y}, tuning, fruit, varietyFor(p, fruit))
		t.Name = p.tree.Name
		o.plants[len(o.plants)-1] = placement
	}

	return o, nil
}

// PlantTree adds a tree at base whose fruit join this orchard's registry.
func (o *Orchard) PlantTree(base cp.Vector, tuning TreeTuning, fruit FruitTuning, picker VarietyPicker) *Tree {
	t := NewTree(base, tuning, fruit, o.env,
		WithVariety(picker),
		WithSpawnHook(o.register),
		WithIDs(o.newID),
	)
	o.trees = append(o.trees, t)
	o.plants = append(o.plants, prefabs.TreePlacementSpec{X: base.X, Y: base.Y, Scale: tuning.Scale})
	return t
}

func (o *Orchard) newID() uint64 {
	o.nextID++
	return o.nextID
}

func (o *Orchard) register(f *Fruit) {
	o.fruits = append(o.fruits, f)
}

// Update advances tweens, trees and then every registered fruit exactly once.
func (o *Orchard) Update(dt float64) {
	if d, ok := o.env.Tweener.(interface{ Update(float64) }); ok {
		d.Update(dt)
	}
	for _, t := range o.trees {
		t.Update(dt)
	}
	fruits := append([]*Fruit(nil), o.fruits...)
	for _, f := range fruits {
		f.OnTick(dt)
	}
	o.pruneFloor()
}

// pruneFloor drops the oldest resting floor fruit beyond MaxFloorFruit.
func (o *Orchard) pruneFloor() {
	if o.MaxFloorFruit <= 0 {
		return
	}
	onFloor := 0
	for _, f := range o.fruits {
		if f.State() == FruitOnFloor {
			onFloor++
		}
	}
	excess := onFloor - o.MaxFloorFruit
	if excess <= 0 {
		return
	}

	kept := o.fruits[:0]
	for _, f := range o.fruits {
		if excess > 0 && f.State() == FruitOnFloor && f != o.grab {
			excess--
			o.drop(f)
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(o.fruits); i++ {
		o.fruits[i] = nil
	}
	o.fruits = kept
}

func (o *Orchard) drop(f *Fruit) {
	f.cancelMotion()
	if c := f.container; c != nil {
		c.RemoveMember(f)
	}
	if o.OnRemove != nil {
		o.OnRemove(f)
	}
}

// PointerDown grabs the fruit under p that accepts a grab, nearest centre
// first. It returns the grabbed fruit or nil.
func (o *Orchard) PointerDown(p cp.Vector) *Fruit {
	if o.grab != nil {
		return nil
	}
	f := o.FruitAt(p)
	if f == nil {
		return nil
	}
	o.grab = f
	f.OnPointerDown(p)
	return f
}

// FruitAt returns the grab candidate under p, or nil.
func (o *Orchard) FruitAt(p cp.Vector) *Fruit {
	var best *Fruit
	var bestDist float64
	for _, f := range o.fruits {
		if !f.AcceptsGrab() || !f.Contains(p) {
			continue
		}
		d := f.Position().Distance(p)
		if best == nil || d < bestDist {
			best, bestDist = f, d
		}
	}
	return best
}

func (o *Orchard) PointerDrag(p cp.Vector) {
	if o.grab != nil {
		o.grab.OnPointerDrag(p)
	}
}

func (o *Orchard) PointerUp() {
	if o.grab == nil {
		return
	}
	f := o.grab
	o.grab = nil
	f.OnPointerUp()
}

// Grab is the fruit currently held by the pointer, if any.
func (o *Orchard) Grab() *Fruit {
	return o.grab
}

// Reset drops every fruit and restarts each tree.
func (o *Orchard) Reset() {
	for _, f := range o.fruits {
		o.drop(f)
	}
	o.fruits = nil
	o.grab = nil
	for _, t := range o.trees {
		t.Reset()
	}
}

// ApplyTuning replaces tree and fruit tuning on every tree without touching
// any fruit's state.
func (o *Orchard) ApplyTuning(tree *prefabs.TreeSpec, fruit *prefabs.FruitSpec) {
	for i, t := range o.trees {
		o.applyTo(t, o.plants[i].Scale, tree, fruit)
	}
}

func (o *Orchard) applyTo(t *Tree, scale float64, tree *prefabs.TreeSpec, fruit *prefabs.FruitSpec) {
	ft := FruitTuningFromSpec(fruit, o.FloorY)
	t.SetTuning(TreeTuningFromSpec(tree, scale))
	t.SetFruitTuning(ft)
	for _, f := range o.fruits {
		if f.origin == t {
			f.SetTuning(ft)
		}
	}
}

// Reload re-reads every tree prefab from disk and applies it. Variety
// scripts are recompiled.
func (o *Orchard) Reload() error {
	cache := newTreePrefabCache()
	for i, t := range o.trees {
		name := o.plants[i].Prefab
		if name == "" {
			continue
		}
		p, err := cache.load(name)
		if err != nil {
			return fmt.Errorf("orchard: reload %s: %w", name, err)
		}
		o.applyTo(t, o.plants[i].Scale, p.tree, p.fruit)
		t.SetVariety(varietyFor(p, t.FruitTuning()))
	}
	return nil
}

// Census counts registered fruit per state.
func (o *Orchard) Census() map[FruitState]int {
	out := make(map[FruitState]int, len(fruitStateNames))
	for _, f := range o.fruits {
		out[f.State()]++
	}
	return out
}

func (o *Orchard) Trees() []*Tree {
	return o.trees
}

// Fruits lists registered fruit in spawn order.
func (o *Orchard) Fruits() []*Fruit {
	return o.fruits
}

type treePrefab struct {
	tree  *prefabs.TreeSpec
	fruit *prefabs.FruitSpec
}

type treePrefabCache map[string]treePrefab

func newTreePrefabCache() treePrefabCache {
	return treePrefabCache{}
}

func (c treePrefabCache) load(name string) (treePrefab, error) {
	if p, ok := c[name]; ok {
		return p, nil
	}
	tree, err := prefabs.LoadTreeSpec(name)
	if err != nil {
		return treePrefab{}, err
	}
	var fruit *prefabs.FruitSpec
	if tree.Fruit != "" {
		fruit, err = prefabs.LoadFruitSpec(tree.Fruit)
		if err != nil {
			return treePrefab{}, err
		}
	}
	p := treePrefab{tree: tree, fruit: fruit}
	c[name] = p
	return p, nil
}

func varietyFor(p treePrefab, fruit FruitTuning) VarietyPicker {
	fallback := Variety{Name: "default", Color: fruit.Color}
	if p.fruit != nil && p.fruit.Name != "" {
		fallback.Name = p.fruit.Name
	}
	if p.tree.VarietyScript == "" {
		return StaticVariety(fallback)
	}
	sv, err := NewScriptVariety(p.tree.VarietyScript, fallback)
	if err != nil {
		log.Printf("orchard: %v", err)
		return StaticVariety(fallback)
	}
	return sv
}
