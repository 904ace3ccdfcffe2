package frames

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/gogpu/scope"
	"github.com/gogpu/scope/internal/source"
)

func ramp(n, rate int) *source.Track {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i) / 100
	}
	return &source.Track{Name: "ramp", SampleRate: rate, Samples: s}
}

func TestNumFrames(t *testing.T) {
	s := &Sampler{
		Tracks: []*source.Track{ramp(1000, 1000), ramp(2500, 1000)},
		FPS:    10,
		Window: 10 * time.Millisecond,
	}
	if got := s.NumFrames(); got != 25 {
		t.Errorf("NumFrames() = %d, want 25", got)
	}
	if got := (&Sampler{FPS: 30}).NumFrames(); got != 0 {
		t.Errorf("NumFrames() without tracks = %d, want 0", got)
	}
}

func TestFrameCenteredWindow(t *testing.T) {
	s := &Sampler{
		Tracks: []*source.Track{ramp(100, 100)},
		FPS:    10,
		Window: 40 * time.Millisecond,
	}
	// Frame 5 is at t=0.5s, sample 50; the 4-sample window starts at 48.
	got := s.Frame(5, nil)
	if want := []float64{0.48, 0.49, 0.5, 0.51}; !slices.Equal(got[0], want) {
		t.Errorf("Frame(5) = %v, want %v", got[0], want)
	}
}

func TestFrameZeroPadsAndClamps(t *testing.T) {
	s := &Sampler{
		Tracks:  []*source.Track{ramp(100, 100)},
		FPS:     10,
		Window:  40 * time.Millisecond,
		Amplify: 2,
	}
	if got := s.Frame(0, nil)[0]; !slices.Equal(got, []float64{0, 0, 0, 0.02}) {
		t.Errorf("Frame(0) = %v, want leading zeros", got)
	}
	if got := s.Frame(10, nil)[0]; !slices.Equal(got, []float64{1, 1, 0, 0}) {
		t.Errorf("Frame(10) = %v, want clamped then zero padded", got)
	}
}

func TestFrameReusesBuffers(t *testing.T) {
	s := &Sampler{
		Tracks: []*source.Track{ramp(100, 100), ramp(100, 200)},
		FPS:    25,
		Window: 50 * time.Millisecond,
	}
	a := s.Frame(1, nil)
	if len(a[0]) != 5 || len(a[1]) != 10 {
		t.Fatalf("window lengths = %d, %d, want 5, 10", len(a[0]), len(a[1]))
	}
	b := s.Frame(2, a)
	if &b[0][0] != &a[0][0] {
		t.Error("Frame did not reuse dst")
	}
}

func TestWindowLenMinimum(t *testing.T) {
	s := &Sampler{Tracks: []*source.Track{ramp(10, 10)}, FPS: 1, Window: time.Millisecond}
	if got := s.WindowLen(0); got != 2 {
		t.Errorf("WindowLen() = %d, want 2", got)
	}
}

func TestValidate(t *testing.T) {
	ok := &Sampler{Tracks: []*source.Track{ramp(1, 10)}, FPS: 30, Window: time.Millisecond}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	for _, s := range []*Sampler{
		{FPS: 0, Window: time.Millisecond},
		{FPS: 30},
		{FPS: 30, Window: time.Millisecond, Tracks: []*source.Track{{}}},
	} {
		if err := s.Validate(); !errors.Is(err, scope.ErrInvalidConfig) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidConfig", s, err)
		}
	}
}
