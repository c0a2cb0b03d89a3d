package assets

import (
	"encoding/binary"
	"testing"
)

func TestCleanAssetPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"impact.wav", "sounds/impact.wav"},
		{"sounds/impact.wav", "sounds/impact.wav"},
		{"assets/sounds/snap.wav", "sounds/snap.wav"},
		{"/home/me/orchard/assets/sounds/snap.wav", "sounds/snap.wav"},
		{"", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := cleanAssetPath(c.in); got != c.want {
				t.Fatalf("cleanAssetPath(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestTone(t *testing.T) {
	pcm := Tone(440, 0.1)
	if want := int(0.1*SampleRate) * 4; len(pcm) != want {
		t.Fatalf("len = %d, want %d", len(pcm), want)
	}
	if first := int16(binary.LittleEndian.Uint16(pcm)); first != 0 {
		t.Fatalf("first sample = %d, want 0", first)
	}
	left := binary.LittleEndian.Uint16(pcm[400:])
	right := binary.LittleEndian.Uint16(pcm[402:])
	if left != right {
		t.Fatalf("channels differ: %d vs %d", left, right)
	}
}

func TestLoadClip(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		tone    float64
		seconds float64
		length  float64
		wantErr bool
	}{
		{"embedded_wav", "impact.wav", 0, 0, 0, false},
		{"missing_falls_back", "missing.wav", 330, 0, DefaultToneLength, false},
		{"tone_only", "", 330, 0, DefaultToneLength, false},
		{"long_tone", "", 330, 1.5, 1.5, false},
		{"nothing", "missing.wav", 0, 0, 0, true},
		{"empty", "", 0, 0, 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pcm, err := LoadClip(c.file, c.tone, c.seconds)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadClip: %v", err)
			}
			if len(pcm) == 0 || len(pcm)%4 != 0 {
				t.Fatalf("pcm length %d is not whole stereo frames", len(pcm))
			}
			if c.length > 0 {
				if want := int(c.length * SampleRate); len(pcm)/4 != want {
					t.Fatalf("frames = %d, want %d", len(pcm)/4, want)
				}
			}
		})
	}
}
