package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/milk9111/orchard/obj"
	"github.com/milk9111/orchard/prefabs"
)

func TestHarvesterFillsTheFloor(t *testing.T) {
	spec, err := prefabs.LoadOrchardSpec("")
	if err != nil {
		t.Fatalf("LoadOrchardSpec: %v", err)
	}
	o, err := obj.NewOrchard(spec, obj.Env{Rand: rand.New(rand.NewSource(3))})
	if err != nil {
		t.Fatalf("NewOrchard: %v", err)
	}

	h := newHarvester(o, 0.5)
	const dt = 1.0 / 60
	for i := 0; i < 60*30; i++ {
		h.Update(dt)
		o.Update(dt)
	}

	if h.Grabs == 0 {
		t.Fatalf("harvester never grabbed a fruit")
	}
	census := o.Census()
	if census[obj.FruitOnFloor] == 0 {
		t.Fatalf("no fruit reached the floor: %s", formatCensus(census))
	}
	if census[obj.FruitOnFloor] > spec.MaxFloorFruit {
		t.Fatalf("floor fruit %d above cap %d", census[obj.FruitOnFloor], spec.MaxFloorFruit)
	}
}

func TestFormatCensus(t *testing.T) {
	got := formatCensus(map[obj.FruitState]int{obj.FruitRest: 2})
	if !strings.Contains(got, "rest=2") || !strings.Contains(got, "on_floor=0") {
		t.Fatalf("formatCensus = %q", got)
	}
}
