package obj

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/orchard/prefabs"
)

// VarietyPicker chooses the look of the next fruit a tree grows.
type VarietyPicker interface {
	Pick(members, capacity int) Variety
}

// StaticVariety always returns the same variety.
type StaticVariety Variety

func (s StaticVariety) Pick(int, int) Variety {
	return Variety(s)
}

const varietyDispatchScript = `
__result = variety(__members, __capacity)
`

// ScriptVariety runs a tengo script defining variety(members, capacity). Any
// script failure falls back to Fallback.
type ScriptVariety struct {
	Path     string
	Fallback Variety

	compiled *tengo.Compiled
}

// NewScriptVariety loads and compiles the script once.
func NewScriptVariety(path string, fallback Variety) (*ScriptVariety, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("variety: load %s: %w", path, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + varietyDispatchScript))
	_ = script.Add("__members", 0)
	_ = script.Add("__capacity", 0)
	_ = script.Add("__result", nil)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("variety: compile %s: %w", path, err)
	}

	return &ScriptVariety{Path: path, Fallback: fallback, compiled: compiled}, nil
}

func (s *ScriptVariety) Pick(members, capacity int) Variety {
	v, err := s.run(members, capacity)
	if err != nil {
		log.Printf("variety: %s: %v", s.Path, err)
		return s.Fallback
	}
	return v
}

func (s *ScriptVariety) run(members, capacity int) (Variety, error) {
	if s == nil || s.compiled == nil {
		return Variety{}, fmt.Errorf("script not compiled")
	}
	if err := s.compiled.Set("__members", members); err != nil {
		return Variety{}, err
	}
	if err := s.compiled.Set("__capacity", capacity); err != nil {
		return Variety{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return Variety{}, err
	}

	result := s.compiled.Get("__result").Map()
	if result == nil {
		return Variety{}, fmt.Errorf("variety returned %s, want map", s.compiled.Get("__result").ValueType())
	}

	out := s.Fallback
	if name, ok := result["name"].(string); ok && strings.TrimSpace(name) != "" {
		out.Name = name
	}
	if raw, ok := result["color"].(string); ok {
		c, err := prefabs.ParseColor(raw)
		if err != nil {
			return Variety{}, fmt.Errorf("variety color: %w", err)
		}
		out.Color = c
	}
	return out, nil
}
