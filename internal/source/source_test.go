package source

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gogpu/scope"
)

func writeWAV(t *testing.T, path string, rate, bits, chans int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bits, chans, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadWAVStereoDownmix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Kick.WAV")
	writeWAV(t, path, 8000, 16, 2, []int{
		16384, -16384,
		32767, 32767,
		-32768, 0,
	})

	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tr.Name != "Kick" || tr.SampleRate != 8000 {
		t.Errorf("track = %q @ %d, want Kick @ 8000", tr.Name, tr.SampleRate)
	}
	want := []float64{0, 32767.0 / 32768, -0.5}
	if len(tr.Samples) != len(want) {
		t.Fatalf("samples = %v, want %v", tr.Samples, want)
	}
	for i := range want {
		if math.Abs(tr.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, tr.Samples[i], want[i])
		}
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.wav"), filepath.Join(dir, "b.wav")
	writeWAV(t, a, 4000, 16, 1, []int{0, 100})
	writeWAV(t, b, 4000, 16, 1, []int{0, 100, 200})

	tracks, err := LoadAll([]string{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 || len(tracks[1].Samples) != 3 {
		t.Errorf("LoadAll() = %d tracks", len(tracks))
	}
	if _, err := LoadAll([]string{a, filepath.Join(dir, "missing.wav")}); err == nil {
		t.Error("LoadAll with a missing file should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "notes.txt")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Load(.txt) = %v, want ErrUnsupported", err)
	}

	for _, name := range []string{"bad.wav", "bad.flac", "bad.ogg"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(strings.Repeat("not audio ", 64)), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("Load(%s) should fail", name)
		}
	}
}

func TestMono(t *testing.T) {
	p := pcm{channels: 3, data: []float64{1, 0, -1, 0.3, 0.3, 0.3, 1, 1}}
	got := p.mono()
	if len(got) != 2 || got[0] != 0 || math.Abs(got[1]-0.3) > 1e-12 {
		t.Errorf("mono() = %v, want [0 0.3]", got)
	}
	single := pcm{channels: 1, data: []float64{0.5}}
	if got := single.mono(); len(got) != 1 || got[0] != 0.5 {
		t.Errorf("mono(1ch) = %v", got)
	}
}

func TestDuration(t *testing.T) {
	tr := &Track{SampleRate: 100, Samples: make([]float64, 250)}
	if got := tr.Duration(); got != 2500*time.Millisecond {
		t.Errorf("Duration() = %v, want 2.5s", got)
	}
	if got := (&Track{}).Duration(); got != 0 {
		t.Errorf("zero-rate Duration() = %v", got)
	}
}

func TestSynthShapes(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []float64
	}{
		{Square, []float64{1, 1, -1, -1}},
		{Saw, []float64{-1, -0.5, 0, 0.5}},
		{Triangle, []float64{-1, 0, 1, 0}},
		{Sine, []float64{0, 1, 0, -1}},
	}
	for _, tt := range tests {
		tr, err := Synth{Shape: tt.shape, Freq: 1, Amplitude: 1, SampleRate: 4, Duration: time.Second}.Track()
		if err != nil {
			t.Fatal(err)
		}
		for i, w := range tt.want {
			if math.Abs(tr.Samples[i]-w) > 1e-9 {
				t.Errorf("%v sample %d = %v, want %v", tt.shape, i, tr.Samples[i], w)
			}
		}
	}
}

func TestSynthAttack(t *testing.T) {
	tr, err := Synth{
		Shape:      Square,
		Freq:       10,
		Amplitude:  0.5,
		SampleRate: 1000,
		Duration:   time.Second,
		Attack:     100 * time.Millisecond,
	}.Track()
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Samples) != 1000 {
		t.Fatalf("len = %d, want 1000", len(tr.Samples))
	}
	if a := math.Abs(tr.Samples[0]); a >= 0.5 || a <= 0 {
		t.Errorf("first sample = %v, want inside the attack ramp", tr.Samples[0])
	}
	for i := 1; i < 50; i++ {
		if math.Abs(tr.Samples[i]) < math.Abs(tr.Samples[i-1]) {
			t.Fatalf("attack not monotonic at %d", i)
		}
	}
	for _, v := range tr.Samples[200:] {
		if math.Abs(v) != 0.5 {
			t.Fatalf("sustain sample = %v, want ±0.5", v)
		}
	}
}

func TestSynthInvalid(t *testing.T) {
	if _, err := (Synth{Freq: 1, Duration: time.Second}).Track(); !errors.Is(err, scope.ErrInvalidConfig) {
		t.Errorf("Track() = %v, want ErrInvalidConfig", err)
	}
}

func TestParseShape(t *testing.T) {
	for _, name := range []string{"sine", "Square", " saw", "TRIANGLE"} {
		if _, err := ParseShape(name); err != nil {
			t.Errorf("ParseShape(%q) = %v", name, err)
		}
	}
	if _, err := ParseShape("noise"); !errors.Is(err, scope.ErrInvalidConfig) {
		t.Errorf("ParseShape(noise) = %v, want ErrInvalidConfig", err)
	}
}

func TestDemo(t *testing.T) {
	tracks, err := Demo(6, 8000, 500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 6 {
		t.Fatalf("Demo() = %d tracks, want 6", len(tracks))
	}
	seen := map[string]bool{}
	for _, tr := range tracks {
		if len(tr.Samples) != 4000 {
			t.Errorf("%s has %d samples, want 4000", tr.Name, len(tr.Samples))
		}
		if seen[tr.Name] {
			t.Errorf("duplicate track name %q", tr.Name)
		}
		seen[tr.Name] = true
	}
}
