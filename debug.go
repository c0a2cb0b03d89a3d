package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/orchard/obj"
	"github.com/milk9111/orchard/prefabs"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

// clipboardSink copies text to the system clipboard. It disables itself if
// the platform clipboard cannot be opened.
type clipboardSink struct {
	ready bool
	tried bool
}

func (c *clipboardSink) Write(text string) bool {
	if !c.tried {
		c.tried = true
		if err := clipboard.Init(); err != nil {
			log.Printf("debug: clipboard unavailable: %v", err)
		} else {
			c.ready = true
		}
	}
	if !c.ready {
		return false
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return true
}

// tuningSnapshot is the yaml copied by the debug key, shaped like the prefab
// files so it can be pasted back.
type tuningSnapshot struct {
	Tree  prefabs.TreeSpec  `yaml:"tree"`
	Fruit prefabs.FruitSpec `yaml:"fruit"`
}

func snapshotTree(t *obj.Tree) tuningSnapshot {
	tt := t.Tuning()
	ft := t.FruitTuning()
	snap := tuningSnapshot{
		Tree: prefabs.TreeSpec{
			Name:              t.Name,
			MaxFruit:          tt.MaxFruit,
			MinInterval:       tt.MinInterval,
			MaxInterval:       tt.MaxInterval,
			SpawnRadius:       tt.SpawnRadius,
			OverlapMargin:     tt.OverlapMargin,
			PlacementAttempts: tt.PlacementAttempts,
			ReachScale:        tt.ReachScale,
			ReachReturn:       tt.ReachReturn,
			Crown: prefabs.CrownSpec{
				OffsetX: tt.SpawnOffset.X,
				OffsetY: tt.SpawnOffset.Y,
			},
		},
		Fruit: prefabs.FruitSpec{
			Radius:          ft.Radius,
			Color:           &prefabs.YAMLColor{Color: ft.Color},
			GrowDuration:    ft.GrowDuration,
			DetachThreshold: ft.DetachThreshold,
			ShakeAmount:     ft.ShakeAmount,
			ShakeBlend:      ft.ShakeBlend,
			DetachSpeed:     ft.DetachSpeed,
			DragSpeed:       ft.DragSpeed,
			DragMode:        prefabs.DragModeBounded,
			SnapEpsilon:     ft.SnapEpsilon,
			RestReturn:      ft.RestReturn,
			FallMode:        prefabs.FallModeMomentum,
			FallSpeed:       ft.FallSpeed,
			Gravity:         ft.Gravity,
			ThrowBlend:      ft.ThrowBlend,
			ThrowScale:      ft.ThrowScale,
			MaxThrowSpeed:   ft.MaxThrowSpeed,
			Bounce: prefabs.BounceSpec{
				Height: ft.BounceHeight,
				Drift:  ft.BounceDrift,
				Rise:   ft.BounceRise,
				Fall:   ft.BounceFall,
			},
			Sounds: prefabs.FruitSoundSpec{
				Grow:   ft.GrowSound,
				Impact: ft.ImpactSound,
				Snap:   ft.SnapSound,
			},
		},
	}
	if ft.DragMode == obj.DragInstant {
		snap.Fruit.DragMode = prefabs.DragModeInstant
	}
	if ft.FallMode == obj.FallConstant {
		snap.Fruit.FallMode = prefabs.FallModeConstant
	}
	return snap
}

func tuningYAML(t *obj.Tree) (string, error) {
	data, err := yaml.Marshal(snapshotTree(t))
	if err != nil {
		return "", fmt.Errorf("debug: marshal tuning: %w", err)
	}
	return string(data), nil
}

func (g *Game) copyTuning() {
	trees := g.orchard.Trees()
	if len(trees) == 0 {
		return
	}
	text, err := tuningYAML(trees[0])
	if err != nil {
		log.Printf("%v", err)
		return
	}
	if g.clipboard.Write(text) {
		log.Printf("debug: copied tuning for %q to clipboard", trees[0].Name)
	}
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	census := g.orchard.Census()
	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f\n", g.frames, ebiten.ActualFPS())
	for s := obj.FruitGrow; s <= obj.FruitOnFloor; s++ {
		fmt.Fprintf(&b, "%-9s %d\n", s, census[s])
	}
	if grab := g.orchard.Grab(); grab != nil {
		fmt.Fprintf(&b, "grab #%d %s at (%.2f, %.2f)\n", grab.ID, grab.State(), grab.Position().X, grab.Position().Y)
	}
	b.WriteString("C: copy tuning  R: reset  Esc: pause")
	ebitenutil.DebugPrint(screen, b.String())
}
