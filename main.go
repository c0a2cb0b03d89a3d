package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/orchard/settings"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlay and tuning copy key")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	orchardFile := flag.String("orchard", "", "orchard prefab in prefabs/ (default orchard.yaml)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *debug {
		log.Printf("main: seed %d", *seed)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	prefs, err := settings.Open()
	if err != nil {
		log.Printf("main: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("orchard")
	ebiten.SetTPS(tps)
	ebiten.SetFullscreen(prefs.Settings().Fullscreen)

	game, err := NewGame(*orchardFile, *seed, *debug, prefs)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
