package assets

import (
	"bytes"
	"embed"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

//go:embed sounds/*.wav
var assetsFS embed.FS

// AudioContext returns the shared audio context, creating it on first use.
func AudioContext() *audio.Context {
	if c := audio.CurrentContext(); c != nil {
		return c
	}
	return audio.NewContext(SampleRate)
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// DefaultToneLength is the length in seconds of a fallback tone.
const DefaultToneLength = 0.12

// LoadClip returns a clip as 16-bit stereo PCM ready for
// audio.Context.NewPlayerFromBytes. A missing or broken file falls back to a
// synthesized tone of seconds length (DefaultToneLength when not positive)
// when tone is positive.
func LoadClip(file string, tone, seconds float64) ([]byte, error) {
	var loadErr error
	if file != "" {
		pcm, err := decodeWAV(file)
		if err == nil {
			return pcm, nil
		}
		loadErr = err
	}
	if tone > 0 {
		if seconds <= 0 {
			seconds = DefaultToneLength
		}
		return Tone(tone, seconds), nil
	}
	if loadErr == nil {
		loadErr = fmt.Errorf("no file or tone")
	}
	return nil, fmt.Errorf("assets: clip %q: %w", file, loadErr)
}

func decodeWAV(file string) ([]byte, error) {
	b, err := LoadFile(file)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode wav %q: %w", file, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read wav %q: %w", file, err)
	}
	return pcm, nil
}

// Tone synthesizes a plucked sine at freq Hz lasting seconds.
func Tone(freq, seconds float64) []byte {
	frames := int(seconds * SampleRate)
	if frames < 0 {
		frames = 0
	}
	out := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		t := float64(i) / SampleRate
		env := math.Exp(-t * 18)
		v := int16(math.Sin(2*math.Pi*freq*t) * env * 0.4 * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		s = s[idx+len("/assets/"):]
	}
	s = strings.TrimPrefix(s, "assets/")
	if !strings.HasPrefix(s, "sounds/") {
		s = "sounds/" + s
	}
	return s
}
