package main

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/obj"
)

type harvestPhase int

const (
	phaseIdle harvestPhase = iota
	phasePull
	phaseCarry
)

// harvester is a scripted pointer: it grabs a resting fruit, pulls it off
// the tree, carries it sideways and lets go.
type harvester struct {
	orchard *obj.Orchard
	every   float64
	pull    cp.Vector
	speed   float64

	phase   harvestPhase
	wait    float64
	target  *obj.Fruit
	pointer cp.Vector
	goal    cp.Vector

	Grabs    int
	Releases int
}

func newHarvester(o *obj.Orchard, every float64) *harvester {
	return &harvester{
		orchard: o,
		every:   every,
		pull:    cp.Vector{X: 2.5, Y: -1},
		speed:   8,
		wait:    every,
	}
}

func (h *harvester) Update(dt float64) {
	switch h.phase {
	case phaseIdle:
		h.wait -= dt
		if h.wait > 0 {
			return
		}
		h.wait = h.every
		h.target = h.pick()
		if h.target == nil {
			return
		}
		h.pointer = h.target.Position()
		if h.orchard.PointerDown(h.pointer) != h.target {
			h.target = nil
			return
		}
		h.Grabs++
		h.goal = h.pointer.Add(h.pull)
		h.phase = phasePull
	case phasePull:
		h.pointer = h.pointer.LerpConst(h.goal, h.speed*dt)
		h.orchard.PointerDrag(h.pointer)
		if h.target.State() == obj.FruitDrag || h.pointer == h.goal {
			h.phase = phaseCarry
		}
	case phaseCarry:
		h.orchard.PointerUp()
		h.Releases++
		h.target = nil
		h.phase = phaseIdle
	}
}

// pick returns the oldest resting fruit still on a tree.
func (h *harvester) pick() *obj.Fruit {
	for _, f := range h.orchard.Fruits() {
		if f.State() == obj.FruitRest {
			return f
		}
	}
	return nil
}
