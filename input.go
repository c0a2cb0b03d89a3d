package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

// Pointer merges the left mouse button and the first active touch into one
// pointer in world coordinates.
type Pointer struct {
	// World is the pointer position in world units.
	World cp.Vector
	// Pressed is true while the button or touch is held.
	Pressed bool
	// JustPressed is true on the frame the press started.
	JustPressed bool
	// JustReleased is true on the frame the press ended.
	JustReleased bool

	camera   *Camera
	touchID  ebiten.TouchID
	touching bool
	touches  []ebiten.TouchID
}

func NewPointer(camera *Camera) *Pointer {
	return &Pointer{camera: camera}
}

func (p *Pointer) Update() {
	p.JustPressed = false
	p.JustReleased = false

	if p.touching {
		if inpututil.IsTouchJustReleased(p.touchID) {
			x, y := inpututil.TouchPositionInPreviousTick(p.touchID)
			p.World = p.camera.ScreenToWorld(float64(x), float64(y))
			p.touching = false
			p.Pressed = false
			p.JustReleased = true
			return
		}
		x, y := ebiten.TouchPosition(p.touchID)
		p.World = p.camera.ScreenToWorld(float64(x), float64(y))
		return
	}

	p.touches = inpututil.AppendJustPressedTouchIDs(p.touches[:0])
	if len(p.touches) > 0 && !p.Pressed {
		p.touchID = p.touches[0]
		p.touching = true
		x, y := ebiten.TouchPosition(p.touchID)
		p.World = p.camera.ScreenToWorld(float64(x), float64(y))
		p.Pressed = true
		p.JustPressed = true
		return
	}

	mx, my := ebiten.CursorPosition()
	p.World = p.camera.ScreenToWorld(float64(mx), float64(my))
	p.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	p.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	p.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}
