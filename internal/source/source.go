// Package source decodes audio files into mono tracks for rendering.
//
// Each file becomes one channel of the oscilloscope. Multi-channel audio is
// downmixed by averaging, and samples are normalized to [-1, 1].
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/scope"
)

// ErrUnsupported is returned for files whose extension has no decoder.
var ErrUnsupported = errors.New("source: unsupported format")

// Track is one mono channel of audio.
type Track struct {
	Name       string
	SampleRate int
	Samples    []float64
}

// Duration returns the playing time of the track.
func (t *Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(t.Samples)) * time.Second / time.Duration(t.SampleRate)
}

// Load decodes the file at path, picking the decoder by extension:
// .wav, .flac, .ogg or .mp3.
func Load(path string) (*Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pcm, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", path, err)
	}
	t := &Track{
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SampleRate: pcm.rate,
		Samples:    pcm.mono(),
	}
	scope.Logger().Debug("source: loaded", "path", path, "rate", t.SampleRate,
		"channels", pcm.channels, "samples", len(t.Samples))
	return t, nil
}

// LoadAll loads every path in order.
func LoadAll(paths []string) ([]*Track, error) {
	tracks := make([]*Track, 0, len(paths))
	for _, p := range paths {
		t, err := Load(p)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// pcm is decoded interleaved audio normalized to [-1, 1].
type pcm struct {
	rate     int
	channels int
	data     []float64
}

// mono averages the interleaved channels.
func (p pcm) mono() []float64 {
	if p.channels <= 1 {
		return p.data
	}
	n := len(p.data) / p.channels
	out := make([]float64, n)
	for i := range out {
		var sum float64
		for _, v := range p.data[i*p.channels : (i+1)*p.channels] {
			sum += v
		}
		out[i] = sum / float64(p.channels)
	}
	return out
}

// fullScale returns the magnitude of the most negative signed sample of the
// given bit depth.
func fullScale(bits int) float64 {
	if bits <= 0 {
		bits = 16
	}
	return float64(int64(1) << (bits - 1))
}
