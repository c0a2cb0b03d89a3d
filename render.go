package main

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/obj"
	"github.com/milk9111/orchard/prefabs"
	"golang.org/x/image/colornames"
)

var layerIndex = map[string]int{
	obj.LayerGround:  0,
	obj.LayerFruit:   1,
	obj.LayerFalling: 2,
	obj.LayerHeld:    3,
}

type layerEntry struct {
	index int
	order int
}

// renderLayers records the layer advice fruit send while changing state.
type renderLayers struct {
	entries map[*obj.Fruit]layerEntry
}

var _ obj.Layers = (*renderLayers)(nil)

func newRenderLayers() *renderLayers {
	return &renderLayers{entries: map[*obj.Fruit]layerEntry{}}
}

func (l *renderLayers) SetRenderLayer(f *obj.Fruit, layer string, order int) {
	l.entries[f] = layerEntry{index: layerIndex[layer], order: order}
}

func (l *renderLayers) forget(f *obj.Fruit) {
	delete(l.entries, f)
}

func (l *renderLayers) clear() {
	l.entries = map[*obj.Fruit]layerEntry{}
}

// sorted returns fruits in draw order: layer first, then order.
func (l *renderLayers) sorted(fruits []*obj.Fruit) []*obj.Fruit {
	out := append([]*obj.Fruit(nil), fruits...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := l.entries[out[i]], l.entries[out[j]]
		if a.index != b.index {
			return a.index < b.index
		}
		return a.order < b.order
	})
	return out
}

// treeLook is the drawing data for a tree that the core does not carry.
type treeLook struct {
	crownRadius float64
	crownColor  color.Color
	trunkWidth  float64
	trunkColor  color.Color
	leafColor   color.Color
}

func treeLookFromSpec(spec *prefabs.TreeSpec, scale float64) treeLook {
	if scale <= 0 {
		scale = 1
	}
	look := treeLook{
		crownRadius: 2.4 * scale,
		crownColor:  colornames.Forestgreen,
		trunkWidth:  0.5 * scale,
		trunkColor:  colornames.Saddlebrown,
		leafColor:   colornames.Yellowgreen,
	}
	if spec == nil {
		return look
	}
	if spec.Crown.Radius > 0 {
		look.crownRadius = spec.Crown.Radius * scale
	}
	if spec.Trunk.Width > 0 {
		look.trunkWidth = spec.Trunk.Width * scale
	}
	look.crownColor = spec.Crown.Color.Or(look.crownColor)
	look.trunkColor = spec.Trunk.Color.Or(look.trunkColor)
	look.leafColor = spec.Leaves.Or(look.leafColor)
	return look
}

func (g *Game) drawScene(screen *ebiten.Image) {
	screen.Fill(g.background)

	cam := g.camera
	_, floorY := cam.WorldToScreen(cp.Vector{Y: g.orchard.FloorY})
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.FillRect(screen, 0, float32(floorY), float32(w), float32(h)-float32(floorY), g.ground, false)

	for i, t := range g.orchard.Trees() {
		look := g.lookFor(i)
		bx, by, cx, cy := trunkSegment(cam, t)
		vector.StrokeLine(screen, float32(bx), float32(by), float32(cx), float32(cy), cam.Length(look.trunkWidth), look.trunkColor, true)
	}
	for i, t := range g.orchard.Trees() {
		look := g.lookFor(i)
		cx, cy := cam.WorldToScreen(t.Crown())
		vector.FillCircle(screen, float32(cx), float32(cy), cam.Length(look.crownRadius), look.crownColor, true)
	}

	for _, f := range g.layers.sorted(g.orchard.Fruits()) {
		x, y := cam.WorldToScreen(f.Position())
		r := cam.Length(f.Tuning.Radius * f.Scale())
		if r <= 0 {
			continue
		}
		vector.FillCircle(screen, float32(x), float32(y), r, f.Variety.Color, true)
		if f == g.orchard.Grab() {
			vector.StrokeCircle(screen, float32(x), float32(y), r+2, 2, colornames.White, true)
		}
	}

	g.effects.Draw(screen, cam)
}

// trunkSegment stretches the trunk from the base to the live crown, so a
// reaching crown bends the whole tree.
func trunkSegment(cam *Camera, t *obj.Tree) (bx, by, cx, cy float64) {
	bx, by = cam.WorldToScreen(t.Base())
	cx, cy = cam.WorldToScreen(t.Crown())
	return bx, by, cx, cy
}

func (g *Game) lookFor(i int) treeLook {
	if i < len(g.looks) {
		return g.looks[i]
	}
	return treeLookFromSpec(nil, 1)
}
