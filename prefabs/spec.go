package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped by every Validate failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

const (
	OrchardFile = "orchard.yaml"

	DragModeBounded = "bounded"
	DragModeInstant = "instant"

	FallModeMomentum = "momentum"
	FallModeConstant = "constant"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type AudioSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
	// Tone is the fallback synth frequency in Hz used when File is missing.
	Tone float64 `yaml:"tone"`
	// Length is the fallback tone length in seconds.
	Length float64 `yaml:"length"`
}

type OrchardSpec struct {
	Name          string              `yaml:"name"`
	FloorY        float64             `yaml:"floor_y"`
	MaxFloorFruit int                 `yaml:"max_floor_fruit"`
	View          ViewSpec            `yaml:"view"`
	Background    *YAMLColor          `yaml:"background"`
	Ground        *YAMLColor          `yaml:"ground"`
	Audio         []AudioSpec         `yaml:"audio"`
	Trees         []TreePlacementSpec `yaml:"trees"`
}

type ViewSpec struct {
	CenterX       float64 `yaml:"center_x"`
	CenterY       float64 `yaml:"center_y"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

type TreePlacementSpec struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Scale  float64 `yaml:"scale"`
}

func LoadOrchardSpec(filename string) (*OrchardSpec, error) {
	if filename == "" {
		filename = OrchardFile
	}
	spec, err := LoadSpec[OrchardSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

func (s *OrchardSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil orchard", ErrInvalidSpec)
	}
	if s.MaxFloorFruit < 0 {
		return fmt.Errorf("%w: max_floor_fruit must not be negative", ErrInvalidSpec)
	}
	if s.View.PixelsPerUnit < 0 {
		return fmt.Errorf("%w: view.pixels_per_unit must not be negative", ErrInvalidSpec)
	}
	for i, t := range s.Trees {
		if strings.TrimSpace(t.Prefab) == "" {
			return fmt.Errorf("%w: trees[%d].prefab is empty", ErrInvalidSpec, i)
		}
		if t.Scale < 0 {
			return fmt.Errorf("%w: trees[%d].scale must not be negative", ErrInvalidSpec, i)
		}
	}
	return nil
}

type TreeSpec struct {
	Name              string     `yaml:"name"`
	MaxFruit          int        `yaml:"max_fruit"`
	MinInterval       float64    `yaml:"min_interval"`
	MaxInterval       float64    `yaml:"max_interval"`
	SpawnRadius       float64    `yaml:"spawn_radius"`
	OverlapMargin     float64    `yaml:"overlap_margin"`
	PlacementAttempts int        `yaml:"placement_attempts"`
	ReachScale        float64    `yaml:"reach_scale"`
	ReachReturn       float64    `yaml:"reach_return"`
	Crown             CrownSpec  `yaml:"crown"`
	Trunk             TrunkSpec  `yaml:"trunk"`
	Fruit             string     `yaml:"fruit"`
	VarietyScript     string     `yaml:"variety_script"`
	Leaves            *YAMLColor `yaml:"leaves"`
}

type CrownSpec struct {
	OffsetX float64    `yaml:"offset_x"`
	OffsetY float64    `yaml:"offset_y"`
	Radius  float64    `yaml:"radius"`
	Color   *YAMLColor `yaml:"color"`
}

type TrunkSpec struct {
	Width float64    `yaml:"width"`
	Color *YAMLColor `yaml:"color"`
}

func LoadTreeSpec(filename string) (*TreeSpec, error) {
	spec, err := LoadSpec[TreeSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

func (s *TreeSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidSpec)
	}
	if s.MaxFruit < 0 {
		return fmt.Errorf("%w: max_fruit must not be negative", ErrInvalidSpec)
	}
	if s.MinInterval < 0 || s.MaxInterval < s.MinInterval {
		return fmt.Errorf("%w: interval range [%v, %v]", ErrInvalidSpec, s.MinInterval, s.MaxInterval)
	}
	if s.SpawnRadius < 0 {
		return fmt.Errorf("%w: spawn_radius must not be negative", ErrInvalidSpec)
	}
	if s.PlacementAttempts < 0 {
		return fmt.Errorf("%w: placement_attempts must not be negative", ErrInvalidSpec)
	}
	if s.ReachScale < 0 || s.ReachScale > 1 {
		return fmt.Errorf("%w: reach_scale %v outside [0, 1]", ErrInvalidSpec, s.ReachScale)
	}
	return nil
}

type FruitSpec struct {
	Name            string         `yaml:"name"`
	Radius          float64        `yaml:"radius"`
	Color           *YAMLColor     `yaml:"color"`
	GrowDuration    float64        `yaml:"grow_duration"`
	DetachThreshold float64        `yaml:"detach_threshold"`
	ShakeAmount     float64        `yaml:"shake_amount"`
	ShakeBlend      float64        `yaml:"shake_blend"`
	DetachSpeed     float64        `yaml:"detach_speed"`
	DragSpeed       float64        `yaml:"drag_speed"`
	DragMode        string         `yaml:"drag_mode"`
	SnapEpsilon     float64        `yaml:"snap_epsilon"`
	RestReturn      float64        `yaml:"rest_return"`
	FallMode        string         `yaml:"fall_mode"`
	FallSpeed       float64        `yaml:"fall_speed"`
	Gravity         float64        `yaml:"gravity"`
	ThrowBlend      float64        `yaml:"throw_blend"`
	ThrowScale      float64        `yaml:"throw_scale"`
	MaxThrowSpeed   float64        `yaml:"max_throw_speed"`
	Bounce          BounceSpec     `yaml:"bounce"`
	Sounds          FruitSoundSpec `yaml:"sounds"`
}

type BounceSpec struct {
	Height float64 `yaml:"height"`
	Drift  float64 `yaml:"drift"`
	Rise   float64 `yaml:"rise"`
	Fall   float64 `yaml:"fall"`
}

type FruitSoundSpec struct {
	Grow   string `yaml:"grow"`
	Impact string `yaml:"impact"`
	Snap   string `yaml:"snap"`
}

func LoadFruitSpec(filename string) (*FruitSpec, error) {
	spec, err := LoadSpec[FruitSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

func (s *FruitSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil fruit", ErrInvalidSpec)
	}
	if s.DetachThreshold <= 0 {
		return fmt.Errorf("%w: detach_threshold must be positive", ErrInvalidSpec)
	}
	if s.ShakeBlend < 0 || s.ShakeBlend > 1 {
		return fmt.Errorf("%w: shake_blend %v outside [0, 1]", ErrInvalidSpec, s.ShakeBlend)
	}
	if s.ThrowBlend < 0 || s.ThrowBlend > 1 {
		return fmt.Errorf("%w: throw_blend %v outside [0, 1]", ErrInvalidSpec, s.ThrowBlend)
	}
	switch s.DragMode {
	case "", DragModeBounded, DragModeInstant:
	default:
		return fmt.Errorf("%w: unknown drag_mode %q", ErrInvalidSpec, s.DragMode)
	}
	switch s.FallMode {
	case "", FallModeMomentum, FallModeConstant:
	default:
		return fmt.Errorf("%w: unknown fall_mode %q", ErrInvalidSpec, s.FallMode)
	}
	return nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or a colornames name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return nil, nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// Or returns the wrapped color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func ParseColor(v string) (color.Color, error) {
	raw := strings.TrimSpace(v)
	if named, ok := colornames.Map[strings.ToLower(raw)]; ok {
		return named, nil
	}

	s := strings.TrimPrefix(raw, "#")

	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return nil, err
	}
	g, err := parse(2)
	if err != nil {
		return nil, err
	}
	b, err := parse(4)
	if err != nil {
		return nil, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return nil, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
