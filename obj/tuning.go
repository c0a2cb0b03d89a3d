package obj

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/prefabs"
	"golang.org/x/image/colornames"
)

type DragMode int

const (
	DragBounded DragMode = iota
	DragInstant
)

type FallMode int

const (
	FallMomentum FallMode = iota
	FallConstant
)

// FruitTuning holds the numbers behind a fruit's feel. Distances are world
// units, speeds units per second, durations seconds.
type FruitTuning struct {
	Radius          float64
	Color           color.Color
	GrowDuration    float64
	DetachThreshold float64
	ShakeAmount     float64
	ShakeBlend      float64
	DetachSpeed     float64
	DragSpeed       float64
	DragMode        DragMode
	SnapEpsilon     float64
	RestReturn      float64
	FallMode        FallMode
	FallSpeed       float64
	Gravity         float64
	ThrowBlend      float64
	ThrowScale      float64
	MaxThrowSpeed   float64
	FloorY          float64

	BounceHeight float64
	BounceDrift  float64
	BounceRise   float64
	BounceFall   float64

	GrowSound   string
	ImpactSound string
	SnapSound   string
}

func DefaultFruitTuning() FruitTuning {
	return FruitTuning{
		Radius:          0.35,
		Color:           colornames.Crimson,
		GrowDuration:    0.5,
		DetachThreshold: 1,
		ShakeAmount:     0.12,
		ShakeBlend:      0.2,
		DetachSpeed:     30,
		DragSpeed:       50,
		DragMode:        DragBounded,
		SnapEpsilon:     0.01,
		RestReturn:      0.25,
		FallMode:        FallMomentum,
		FallSpeed:       6,
		Gravity:         25,
		ThrowBlend:      0.8,
		ThrowScale:      1,
		MaxThrowSpeed:   15,
		BounceHeight:    0.7,
		BounceDrift:     0.7,
		BounceRise:      0.2,
		BounceFall:      0.2,
		GrowSound:       "grow",
		ImpactSound:     "impact",
		SnapSound:       "snap",
	}
}

// FruitTuningFromSpec overlays the non-zero fields of spec on the defaults.
func FruitTuningFromSpec(spec *prefabs.FruitSpec, floorY float64) FruitTuning {
	t := DefaultFruitTuning()
	t.FloorY = floorY
	if spec == nil {
		return t
	}
	setIfPositive(&t.Radius, spec.Radius)
	t.Color = spec.Color.Or(t.Color)
	setIfPositive(&t.GrowDuration, spec.GrowDuration)
	setIfPositive(&t.DetachThreshold, spec.DetachThreshold)
	setIfPositive(&t.ShakeAmount, spec.ShakeAmount)
	setIfPositive(&t.ShakeBlend, spec.ShakeBlend)
	setIfPositive(&t.DetachSpeed, spec.DetachSpeed)
	setIfPositive(&t.DragSpeed, spec.DragSpeed)
	setIfPositive(&t.SnapEpsilon, spec.SnapEpsilon)
	setIfPositive(&t.RestReturn, spec.RestReturn)
	setIfPositive(&t.FallSpeed, spec.FallSpeed)
	setIfPositive(&t.Gravity, spec.Gravity)
	setIfPositive(&t.ThrowBlend, spec.ThrowBlend)
	setIfPositive(&t.ThrowScale, spec.ThrowScale)
	setIfPositive(&t.MaxThrowSpeed, spec.MaxThrowSpeed)
	setIfPositive(&t.BounceHeight, spec.Bounce.Height)
	setIfPositive(&t.BounceDrift, spec.Bounce.Drift)
	setIfPositive(&t.BounceRise, spec.Bounce.Rise)
	setIfPositive(&t.BounceFall, spec.Bounce.Fall)
	if spec.DragMode == prefabs.DragModeInstant {
		t.DragMode = DragInstant
	}
	if spec.FallMode == prefabs.FallModeConstant {
		t.FallMode = FallConstant
	}
	setIfSet(&t.GrowSound, spec.Sounds.Grow)
	setIfSet(&t.ImpactSound, spec.Sounds.Impact)
	setIfSet(&t.SnapSound, spec.Sounds.Snap)
	return t
}

// TreeTuning holds spawn, placement and reach settings for a tree.
type TreeTuning struct {
	MaxFruit          int
	MinInterval       float64
	MaxInterval       float64
	Scale             float64
	SpawnOffset       cp.Vector
	SpawnRadius       float64
	OverlapMargin     float64
	PlacementAttempts int
	ReachScale        float64
	ReachReturn       float64
}

func DefaultTreeTuning() TreeTuning {
	return TreeTuning{
		MaxFruit:          5,
		MinInterval:       1,
		MaxInterval:       3,
		Scale:             1,
		SpawnOffset:       cp.Vector{X: 0, Y: 5},
		SpawnRadius:       1.6,
		OverlapMargin:     1,
		PlacementAttempts: 10,
		ReachScale:        0.2,
		ReachReturn:       0.3,
	}
}

// TreeTuningFromSpec overlays spec on the defaults. scale comes from the
// orchard placement and multiplies every placement distance.
func TreeTuningFromSpec(spec *prefabs.TreeSpec, scale float64) TreeTuning {
	t := DefaultTreeTuning()
	setIfPositive(&t.Scale, scale)
	if spec == nil {
		return t
	}
	if spec.MaxFruit > 0 {
		t.MaxFruit = spec.MaxFruit
	}
	if spec.MaxInterval > 0 {
		t.MinInterval = spec.MinInterval
		t.MaxInterval = spec.MaxInterval
	}
	if off := (cp.Vector{X: spec.Crown.OffsetX, Y: spec.Crown.OffsetY}); off != (cp.Vector{}) {
		t.SpawnOffset = off
	}
	setIfPositive(&t.SpawnRadius, spec.SpawnRadius)
	setIfPositive(&t.OverlapMargin, spec.OverlapMargin)
	if spec.PlacementAttempts > 0 {
		t.PlacementAttempts = spec.PlacementAttempts
	}
	setIfPositive(&t.ReachScale, spec.ReachScale)
	setIfPositive(&t.ReachReturn, spec.ReachReturn)
	return t
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
