package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/scope"
)

// fileConfig is the TOML config file. Renderer settings sit at the top
// level, input and timing settings under [render]:
//
//	width = 1920
//	height = 1080
//	grid_color = "#404040"
//
//	[layout]
//	nrows = 2
//	orientation = "v"
//
//	[render]
//	fps = 60
//	inputs = ["kick.wav", "bass.flac"]
//	colors = ["", "orange"]
type fileConfig struct {
	scope.Config
	Render renderConfig `toml:"render"`
}

type renderConfig struct {
	FPS      float64 `toml:"fps"`
	WindowMS float64 `toml:"window_ms"`
	Amplify  float64 `toml:"amplify"`

	Inputs []string `toml:"inputs"`
	Colors []string `toml:"colors"`
	Labels []string `toml:"labels"`

	// Synth renders that many demo tones when there are no inputs.
	Synth   int     `toml:"synth"`
	Seconds float64 `toml:"seconds"`
	Rate    int     `toml:"sample_rate"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Config: scope.DefaultConfig(),
		Render: renderConfig{
			FPS:      60,
			WindowMS: 40,
			Amplify:  1,
			Seconds:  5,
			Rate:     44100,
		},
	}
}

// loadConfig reads path over the defaults. Unknown keys are errors.
func loadConfig(path string) (fileConfig, error) {
	fc := defaultFileConfig()
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fc, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// colors parses the per-channel color list, padded with unset entries.
func (rc renderConfig) colors(channels int) ([]scope.Color, error) {
	if len(rc.Colors) > channels {
		return nil, fmt.Errorf("%w: %d colors for %d channels", scope.ErrInvalidConfig, len(rc.Colors), channels)
	}
	out := make([]scope.Color, channels)
	for i, s := range rc.Colors {
		c, err := scope.ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("colors[%d]: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
