package main

import (
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/orchard/assets"
	"github.com/milk9111/orchard/common"
	"github.com/milk9111/orchard/obj"
	"github.com/milk9111/orchard/prefabs"
	"github.com/milk9111/orchard/settings"
	"golang.org/x/image/colornames"
)

const (
	splashLife   = 0.8
	splashRadius = 0.45
	leafLife     = 0.9
	leafCount    = 10
	leafGravity  = 6.0
	rustleClip   = "rustle"
)

type clip struct {
	pcm    []byte
	volume float64
}

// voice is a playing clip. left counts down for sliced playback and is
// negative for a clip that plays to its end.
type voice struct {
	player *audio.Player
	left   float64
}

type splash struct {
	pos   cp.Vector
	color color.Color
	age   float64
}

type leaf struct {
	pos cp.Vector
	vel cp.Vector
	age float64
}

var _ obj.Effects = (*Effects)(nil)

// Effects plays the audio and visual requests coming out of the orchard.
type Effects struct {
	clips    map[string]clip
	settings *settings.Manager
	rand     *rand.Rand
	leaves   color.Color

	playing   []voice
	splashes  []splash
	particles []leaf
}

func NewEffects(spec []prefabs.AudioSpec, s *settings.Manager, r *rand.Rand) *Effects {
	e := &Effects{
		clips:    map[string]clip{},
		settings: s,
		rand:     r,
		leaves:   colornames.Yellowgreen,
	}
	for _, a := range spec {
		pcm, err := assets.LoadClip(a.File, a.Tone, a.Length)
		if err != nil {
			log.Printf("effects: audio %q: %v", a.Name, err)
			continue
		}
		vol := a.Volume
		if vol <= 0 {
			vol = 1
		}
		e.clips[a.Name] = clip{pcm: pcm, volume: vol}
	}
	return e
}

// SetLeafColor sets the colour of rustle particles.
func (e *Effects) SetLeafColor(c color.Color) {
	if c != nil {
		e.leaves = c
	}
}

func (e *Effects) PlaySound(name string) {
	e.play(name, 0, -1)
}

func (e *Effects) PlaySoundSlice(name string, seconds float64) {
	c, ok := e.clips[name]
	if !ok {
		return
	}
	start := sliceStart(clipSeconds(c.pcm), seconds, e.rand.Float64())
	if start < 0 {
		e.play(name, 0, -1)
		return
	}
	e.play(name, start, seconds)
}

func (e *Effects) play(name string, start, length float64) {
	c, ok := e.clips[name]
	if !ok {
		return
	}
	volume := c.volume
	if e.settings != nil {
		volume *= e.settings.Volume()
	}
	if volume <= 0 {
		return
	}
	player := assets.AudioContext().NewPlayerFromBytes(c.pcm)
	player.SetVolume(volume)
	if start > 0 {
		if err := player.SetPosition(time.Duration(start * float64(time.Second))); err != nil {
			log.Printf("effects: seek %q: %v", name, err)
		}
	}
	player.Play()
	e.playing = append(e.playing, voice{player: player, left: length})
}

// clipSeconds is the duration of 16-bit stereo PCM at the context rate.
func clipSeconds(pcm []byte) float64 {
	return float64(len(pcm)/4) / assets.SampleRate
}

// sliceStart picks where a seconds-long slice of a clip starts, given r in
// [0, 1). It returns -1 when the clip is not longer than the slice.
func sliceStart(clip, seconds, r float64) float64 {
	if seconds <= 0 || clip <= seconds {
		return -1
	}
	return common.Clamp(r, 0, 1) * (clip - seconds)
}

func (e *Effects) SpawnSplash(pos cp.Vector, c color.Color) {
	e.splashes = append(e.splashes, splash{pos: pos, color: c})
}

func (e *Effects) PlayParticleEffect(effect string, pos cp.Vector) {
	switch effect {
	case obj.EffectLeavesRustle:
		for i := 0; i < leafCount; i++ {
			angle := math.Pi * (0.15 + 0.7*e.rand.Float64())
			speed := 1.5 + 2*e.rand.Float64()
			e.particles = append(e.particles, leaf{pos: pos, vel: cp.ForAngle(angle).Mult(speed)})
		}
		e.PlaySound(rustleClip)
	default:
		log.Printf("effects: unknown particle effect %q", effect)
	}
}

// Update ages decals and particles and releases finished audio players.
func (e *Effects) Update(dt float64) {
	splashes := e.splashes[:0]
	for _, s := range e.splashes {
		s.age += dt
		if s.age < splashLife {
			splashes = append(splashes, s)
		}
	}
	e.splashes = splashes

	particles := e.particles[:0]
	for _, p := range e.particles {
		p.age += dt
		p.vel.Y -= leafGravity * dt
		p.pos = p.pos.Add(p.vel.Mult(dt))
		if p.age < leafLife {
			particles = append(particles, p)
		}
	}
	e.particles = particles

	playing := e.playing[:0]
	for _, v := range e.playing {
		if v.left >= 0 {
			v.left -= dt
			if v.left <= 0 {
				v.player.Pause()
			}
		}
		if v.player.IsPlaying() {
			playing = append(playing, v)
			continue
		}
		_ = v.player.Close()
	}
	e.playing = playing
}

// Clear drops every decal and particle.
func (e *Effects) Clear() {
	e.splashes = nil
	e.particles = nil
}

func (e *Effects) Draw(screen *ebiten.Image, cam *Camera) {
	for _, s := range e.splashes {
		x, y := cam.WorldToScreen(s.pos)
		t := s.age / splashLife
		c := fade(s.color, 1-t)
		r := cam.Length(splashRadius * common.Lerp(0.6, 1.4, t))
		vector.FillCircle(screen, float32(x), float32(y), r, c, true)
	}
	for _, p := range e.particles {
		x, y := cam.WorldToScreen(p.pos)
		c := fade(e.leaves, 1-p.age/leafLife)
		vector.FillRect(screen, float32(x)-3, float32(y)-2, 6, 4, c, false)
	}
}

func fade(c color.Color, alpha float64) color.Color {
	if c == nil {
		c = colornames.White
	}
	alpha = common.Clamp(alpha, 0, 1)
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A) * alpha)
	return n
}
