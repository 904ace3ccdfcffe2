// Package frames slices audio tracks into per-frame sample windows.
package frames

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/scope"
	"github.com/gogpu/scope/internal/source"
)

// Sampler cuts one window per track for each video frame. The window of
// frame i is centered on time i/FPS and has the same length for every
// frame, so it can be passed straight to scope.Renderer.RenderFrame.
type Sampler struct {
	Tracks []*source.Track
	FPS    float64
	Window time.Duration

	// Amplify scales samples before clamping to [-1, 1]. Zero means 1.
	Amplify float64
}

// Validate checks the sampler parameters.
func (s *Sampler) Validate() error {
	if s.FPS <= 0 || math.IsNaN(s.FPS) || math.IsInf(s.FPS, 0) {
		return fmt.Errorf("%w: fps %v", scope.ErrInvalidConfig, s.FPS)
	}
	if s.Window <= 0 {
		return fmt.Errorf("%w: window %v", scope.ErrInvalidConfig, s.Window)
	}
	for i, t := range s.Tracks {
		if t.SampleRate <= 0 {
			return fmt.Errorf("%w: track %d has sample rate %d", scope.ErrInvalidConfig, i, t.SampleRate)
		}
	}
	return nil
}

// NumFrames returns the frame count needed to cover the longest track.
func (s *Sampler) NumFrames() int {
	var longest time.Duration
	for _, t := range s.Tracks {
		longest = max(longest, t.Duration())
	}
	return int(math.Ceil(longest.Seconds() * s.FPS))
}

// WindowLen returns the window length in samples of track ch. It is at
// least 2 so every line has a drawable x-domain.
func (s *Sampler) WindowLen(ch int) int {
	n := int(math.Round(s.Window.Seconds() * float64(s.Tracks[ch].SampleRate)))
	return max(n, 2)
}

// Frame fills dst with the windows of frame i, one per track, reusing dst
// when it has the right shape. Samples outside a track are zero.
func (s *Sampler) Frame(i int, dst [][]float64) [][]float64 {
	if len(dst) != len(s.Tracks) {
		dst = make([][]float64, len(s.Tracks))
	}
	amp := s.Amplify
	if amp == 0 {
		amp = 1
	}
	t := float64(i) / s.FPS
	for ch, tr := range s.Tracks {
		n := s.WindowLen(ch)
		if len(dst[ch]) != n {
			dst[ch] = make([]float64, n)
		}
		start := int(math.Round(t*float64(tr.SampleRate))) - n/2
		w := dst[ch]
		for k := range w {
			j := start + k
			if j < 0 || j >= len(tr.Samples) {
				w[k] = 0
				continue
			}
			w[k] = max(-1, min(1, tr.Samples[j]*amp))
		}
	}
	return dst
}
