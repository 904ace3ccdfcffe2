package source

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/scope"
)

// Shape is a synthetic waveform.
type Shape uint8

const (
	Sine Shape = iota
	Square
	Saw
	Triangle
)

var shapeNames = [...]string{Sine: "sine", Square: "square", Saw: "saw", Triangle: "triangle"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ParseShape parses a shape name.
func ParseShape(s string) (Shape, error) {
	for i, name := range shapeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown waveform %q", scope.ErrInvalidConfig, s)
}

// at returns the waveform value at phase p in [0, 1).
func (s Shape) at(p float64) float64 {
	switch s {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Saw:
		return 2*p - 1
	case Triangle:
		return 1 - 4*math.Abs(p-0.5)
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// Synth describes a synthetic test tone.
type Synth struct {
	Shape      Shape
	Freq       float64 // Hz
	Amplitude  float64 // peak, in [0, 1]
	SampleRate int
	Duration   time.Duration

	// Attack ramps the amplitude up from zero with an out-cubic curve.
	Attack time.Duration
}

// Track renders the tone.
func (s Synth) Track() (*Track, error) {
	if s.SampleRate <= 0 || s.Freq <= 0 || s.Duration <= 0 {
		return nil, fmt.Errorf("%w: synth needs positive rate, frequency and duration", scope.ErrInvalidConfig)
	}
	n := int(s.Duration.Seconds() * float64(s.SampleRate))
	samples := make([]float64, n)

	dt := float32(1 / float64(s.SampleRate))
	var env *gween.Tween
	if s.Attack > 0 {
		env = gween.New(0, float32(s.Amplitude), float32(s.Attack.Seconds()), ease.OutCubic)
	}
	amp := s.Amplitude
	for i := range samples {
		if env != nil {
			v, done := env.Update(dt)
			amp = float64(v)
			if done {
				env = nil
				amp = s.Amplitude
			}
		}
		_, phase := math.Modf(float64(i) * s.Freq / float64(s.SampleRate))
		samples[i] = clamp(amp * s.Shape.at(phase))
	}
	return &Track{
		Name:       fmt.Sprintf("%s %gHz", s.Shape, s.Freq),
		SampleRate: s.SampleRate,
		Samples:    samples,
	}, nil
}

// Demo returns n distinct tones cycling through every shape, for running
// the renderer without input files.
func Demo(n, sampleRate int, d time.Duration) ([]*Track, error) {
	tracks := make([]*Track, 0, n)
	for i := range n {
		t, err := Synth{
			Shape:      Shape(i % len(shapeNames)),
			Freq:       110 * math.Pow(2, float64(i)/4),
			Amplitude:  0.8,
			SampleRate: sampleRate,
			Duration:   d,
			Attack:     d / 10,
		}.Track()
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
