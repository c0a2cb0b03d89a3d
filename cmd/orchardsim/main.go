package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/milk9111/orchard/obj"
	"github.com/milk9111/orchard/prefabs"
)

func main() {
	orchardFile := flag.String("orchard", "", "orchard prefab in prefabs/ (default orchard.yaml)")
	seed := flag.Int64("seed", 1, "random seed")
	seconds := flag.Float64("seconds", 60, "simulated seconds")
	every := flag.Float64("every", 1.5, "seconds between harvests")
	tps := flag.Int("tps", 60, "simulation ticks per second")
	verbose := flag.Bool("v", false, "print a census every simulated second")
	flag.Parse()

	spec, err := prefabs.LoadOrchardSpec(*orchardFile)
	if err != nil {
		log.Fatal(err)
	}

	o, err := obj.NewOrchard(spec, obj.Env{
		Tweener: obj.NewTweenDriver(),
		Rand:    rand.New(rand.NewSource(*seed)),
	})
	if err != nil {
		log.Fatal(err)
	}

	h := newHarvester(o, *every)
	dt := 1.0 / float64(*tps)
	frames := int(*seconds * float64(*tps))
	for i := 1; i <= frames; i++ {
		h.Update(dt)
		o.Update(dt)
		if *verbose && i%*tps == 0 {
			fmt.Fprintf(os.Stdout, "t=%3ds %s\n", i / *tps, formatCensus(o.Census()))
		}
	}

	fmt.Fprintf(os.Stdout, "orchard %q after %.0fs (seed %d)\n", spec.Name, *seconds, *seed)
	fmt.Fprintf(os.Stdout, "grabs=%d releases=%d fruit=%d\n", h.Grabs, h.Releases, len(o.Fruits()))
	fmt.Fprintln(os.Stdout, formatCensus(o.Census()))
}

func formatCensus(c map[obj.FruitState]int) string {
	parts := make([]string, 0, obj.FruitOnFloor+1)
	for s := obj.FruitGrow; s <= obj.FruitOnFloor; s++ {
		parts = append(parts, fmt.Sprintf("%s=%d", s, c[s]))
	}
	return strings.Join(parts, " ")
}
