package main

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/common"
	"github.com/milk9111/orchard/prefabs"
)

// Camera maps world units (y up) to screen pixels (y down). The view centre
// sits in the middle of the screen.
type Camera struct {
	CenterX float64
	CenterY float64

	pixelsPerUnit float64
	screenW       int
	screenH       int
}

func NewCamera(view prefabs.ViewSpec) *Camera {
	ppu := view.PixelsPerUnit
	if ppu <= 0 {
		ppu = 64
	}
	return &Camera{
		CenterX:       view.CenterX,
		CenterY:       view.CenterY,
		pixelsPerUnit: ppu,
		screenW:       common.BaseWidth,
		screenH:       common.BaseHeight,
	}
}

func (c *Camera) WorldToScreen(p cp.Vector) (float64, float64) {
	x := float64(c.screenW)/2 + (p.X-c.CenterX)*c.pixelsPerUnit
	y := float64(c.screenH)/2 - (p.Y-c.CenterY)*c.pixelsPerUnit
	return x, y
}

func (c *Camera) ScreenToWorld(x, y float64) cp.Vector {
	return cp.Vector{
		X: c.CenterX + (x-float64(c.screenW)/2)/c.pixelsPerUnit,
		Y: c.CenterY - (y-float64(c.screenH)/2)/c.pixelsPerUnit,
	}
}

// Length converts a world distance to pixels.
func (c *Camera) Length(units float64) float32 {
	return float32(units * c.pixelsPerUnit)
}
