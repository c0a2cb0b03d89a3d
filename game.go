package main

import (
	"image/color"
	"log"
	"math/rand"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/orchard/common"
	"github.com/milk9111/orchard/obj"
	"github.com/milk9111/orchard/prefabs"
	"github.com/milk9111/orchard/settings"
	"golang.org/x/image/colornames"
)

const tps = 60

type Game struct {
	frames int
	debug  bool
	paused bool
	quit   bool

	spec     *prefabs.OrchardSpec
	orchard  *obj.Orchard
	camera   *Camera
	pointer  *Pointer
	effects  *Effects
	layers   *renderLayers
	looks    []treeLook
	settings *settings.Manager
	watcher  *prefabs.Watcher
	pauseUI  *ebitenui.UI

	clipboard  clipboardSink
	background color.Color
	ground     color.Color
}

func NewGame(orchardFile string, seed int64, debug bool, s *settings.Manager) (*Game, error) {
	spec, err := prefabs.LoadOrchardSpec(orchardFile)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	camera := NewCamera(spec.View)
	g := &Game{
		debug:      debug,
		spec:       spec,
		camera:     camera,
		pointer:    NewPointer(camera),
		effects:    NewEffects(spec.Audio, s, rng),
		layers:     newRenderLayers(),
		settings:   s,
		background: spec.Background.Or(colornames.Lightskyblue),
		ground:     spec.Ground.Or(colornames.Olivedrab),
	}

	g.orchard, err = obj.NewOrchard(spec, obj.Env{
		Effects: g.effects,
		Tweener: obj.NewTweenDriver(),
		Layers:  g.layers,
		Rand:    rng,
	})
	if err != nil {
		return nil, err
	}
	g.orchard.OnRemove = g.layers.forget
	g.loadLooks()

	if _, err := os.Stat("prefabs"); err == nil {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Printf("game: hot reload disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) loadLooks() {
	g.looks = g.looks[:0]
	for _, placement := range g.spec.Trees {
		spec, err := prefabs.LoadTreeSpec(placement.Prefab)
		if err != nil {
			log.Printf("game: tree look %s: %v", placement.Prefab, err)
		}
		g.looks = append(g.looks, treeLookFromSpec(spec, placement.Scale))
	}
	if len(g.looks) > 0 {
		g.effects.SetLeafColor(g.looks[0].leafColor)
	}
}

func (g *Game) Update() error {
	if g.quit || inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.frames++
	g.pollReload()

	g.pointer.Update()
	switch {
	case g.pointer.JustPressed:
		g.orchard.PointerDown(g.pointer.World)
	case g.pointer.JustReleased:
		g.orchard.PointerUp()
	case g.pointer.Pressed:
		g.orchard.PointerDrag(g.pointer.World)
	}

	dt := 1.0 / tps
	g.orchard.Update(dt)
	g.effects.Update(dt)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetOrchard()
	}
	if g.debug && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyTuning()
	}
	return nil
}

func (g *Game) setPaused(p bool) {
	g.paused = p
	if p {
		g.orchard.PointerUp()
	}
}

func (g *Game) resetOrchard() {
	g.orchard.Reset()
	g.layers.clear()
	g.effects.Clear()
	log.Printf("game: orchard reset")
}

func (g *Game) toggleSound() bool {
	on := g.settings.ToggleSound()
	if err := g.settings.Save(); err != nil {
		log.Printf("game: %v", err)
	}
	return on
}

// pollReload applies prefab edits picked up by the watcher.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("game: watcher: %v", err)
	default:
	}
	changes := g.watcher.Drain()
	if len(changes) == 0 {
		return
	}
	for _, c := range changes {
		if c.Name() == prefabs.OrchardFile {
			log.Printf("game: %s changed; restart to re-plant trees", c.Name())
			continue
		}
		log.Printf("game: %s %s changed", c.Kind, c.Name())
	}
	if err := g.orchard.Reload(); err != nil {
		log.Printf("game: reload: %v", err)
		return
	}
	g.loadLooks()
	log.Printf("game: reloaded %d prefab change(s)", len(changes))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawScene(screen)
	if g.debug {
		g.drawDebug(screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		g.watcher.Close()
	}
}
