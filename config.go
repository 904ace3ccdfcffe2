package scope

import (
	"fmt"
	"math"
	"strings"
)

// LabelPosition selects the region corner channel labels are drawn in.
type LabelPosition uint8

const (
	LabelLeftTop LabelPosition = iota
	LabelLeftBottom
	LabelRightTop
	LabelRightBottom
)

var labelPositionNames = [...]string{
	LabelLeftTop:     "left-top",
	LabelLeftBottom:  "left-bottom",
	LabelRightTop:    "right-top",
	LabelRightBottom: "right-bottom",
}

func (p LabelPosition) String() string {
	if int(p) < len(labelPositionNames) {
		return labelPositionNames[p]
	}
	return fmt.Sprintf("LabelPosition(%d)", uint8(p))
}

// Right reports whether labels are anchored to the right edge.
func (p LabelPosition) Right() bool { return p == LabelRightTop || p == LabelRightBottom }

// Bottom reports whether labels are anchored to the bottom edge.
func (p LabelPosition) Bottom() bool { return p == LabelLeftBottom || p == LabelRightBottom }

// MarshalText implements encoding.TextMarshaler.
func (p LabelPosition) MarshalText() ([]byte, error) {
	if int(p) >= len(labelPositionNames) {
		return nil, fmt.Errorf("%w: invalid label position %d", ErrInvalidConfig, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *LabelPosition) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range labelPositionNames {
		if s == name {
			*p = LabelPosition(i)
			return nil
		}
	}
	return fmt.Errorf("%w: invalid label position %q", ErrInvalidConfig, text)
}

// DefaultBackend is the registry name used when Config.Backend is empty.
const DefaultBackend = "raster"

// Config describes the surface and how channels are drawn on it.
// Everything in Config is read once by New; changing it afterwards has no
// effect on an existing Renderer.
type Config struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// ResDivisor shrinks the surface for cheaper previews. Line widths and
	// label sizes shrink with it. ForRecording resets it to 1.
	ResDivisor float64 `toml:"res_divisor"`

	BgColor       Color `toml:"bg_color"`
	InitLineColor Color `toml:"init_line_color"`

	// LineWidth is the stroke width in full-resolution pixels. Zero selects
	// the backend default.
	LineWidth float64 `toml:"line_width"`

	// GridColor enables cell borders when set.
	GridColor     Color   `toml:"grid_color"`
	GridLineWidth float64 `toml:"grid_line_width"`

	// MidlineColor falls back to GridColor, then InitLineColor.
	MidlineColor Color `toml:"midline_color"`
	HMidline     bool  `toml:"h_midline"`
	VMidline     bool  `toml:"v_midline"`

	// LabelColor falls back to InitLineColor.
	LabelColor    Color         `toml:"label_color"`
	LabelSize     float64       `toml:"label_size"`
	LabelPosition LabelPosition `toml:"label_position"`

	// CreateWindow opens an interactive window when the renderer is created.
	// The backend surface must implement Window.
	CreateWindow bool `toml:"create_window"`

	// Backend names a registered backend; empty means DefaultBackend.
	Backend string `toml:"backend"`

	Layout LayoutConfig `toml:"layout"`
}

// DefaultConfig returns a 1280×720 config with one channel per row.
func DefaultConfig() Config {
	return Config{
		Width:         1280,
		Height:        720,
		ResDivisor:    1,
		BgColor:       Named("black"),
		InitLineColor: DefaultLineColor(),
		GridLineWidth: 1,
		LabelSize:     20,
		Backend:       DefaultBackend,
	}
}

// Validate checks that the config can be used to build a Renderer.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: surface size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.ResDivisor < 0 || math.IsNaN(c.ResDivisor) || math.IsInf(c.ResDivisor, 0) {
		return fmt.Errorf("%w: res_divisor %v", ErrInvalidConfig, c.ResDivisor)
	}
	if w, h := c.DividedSize(); w <= 0 || h <= 0 {
		return fmt.Errorf("%w: res_divisor %v leaves an empty %dx%d surface", ErrInvalidConfig, c.ResDivisor, w, h)
	}
	if c.LineWidth < 0 || c.GridLineWidth < 0 || c.LabelSize < 0 {
		return fmt.Errorf("%w: negative line width or label size", ErrInvalidConfig)
	}
	for _, f := range []struct {
		name  string
		color Color
	}{
		{"bg_color", c.BgColor},
		{"init_line_color", c.InitLineColor},
		{"grid_color", c.GridColor},
		{"midline_color", c.MidlineColor},
		{"label_color", c.LabelColor},
	} {
		if !f.color.IsSet() {
			continue
		}
		if _, err := f.color.RGB(); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if _, err := c.Layout.Normalize(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	return nil
}

// DividedSize returns the surface size after applying ResDivisor.
func (c Config) DividedSize() (width, height int) {
	d := c.ResDivisor
	if d == 0 {
		d = 1
	}
	return int(math.Round(float64(c.Width) / d)), int(math.Round(float64(c.Height) / d))
}

// Scale returns the factor applied to line widths and label sizes, the
// inverse of ResDivisor.
func (c Config) Scale() float64 {
	if c.ResDivisor == 0 {
		return 1
	}
	return 1 / c.ResDivisor
}

// ForRecording returns a copy of c rendering at full resolution.
func (c Config) ForRecording() Config {
	c.ResDivisor = 1
	return c
}

// backgroundRGB returns the background, black when unset.
func (c Config) backgroundRGB() (RGB, error) {
	return Resolve(c.BgColor, Named("black")).RGB()
}

// lineColor returns the global default line color, DefaultLineColor when unset.
func (c Config) lineColor() Color {
	return Resolve(c.InitLineColor, DefaultLineColor())
}
