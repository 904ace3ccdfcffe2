package scope

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// RGB is a concrete opaque color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// RGBA converts c to an opaque gg color.
func (c RGB) RGBA() gg.RGBA {
	return gg.RGB(c.R, c.G, c.B)
}

// Bytes returns c quantized to 8 bits per channel.
func (c RGB) Bytes() (r, g, b uint8) {
	return quantize(c.R), quantize(c.G), quantize(c.B)
}

func quantize(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

type colorKind uint8

const (
	colorUnset colorKind = iota
	colorNamed
	colorRGB
)

// Color is either unset, a named color or an explicit RGB triple.
// The zero value is unset. Named colors are looked up in the SVG 1.1 color
// keyword table when the color is resolved.
type Color struct {
	kind colorKind
	name string
	rgb  RGB
}

// RGBColor returns an explicit color.
func RGBColor(r, g, b float64) Color {
	return Color{kind: colorRGB, rgb: RGB{R: r, G: g, B: b}}
}

// Named returns a named color such as "black" or "steelblue".
func Named(name string) Color {
	return Color{kind: colorNamed, name: strings.ToLower(name)}
}

// ParseColor parses "#rgb", "#rrggbb" or a color name.
// The empty string yields an unset Color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Color{}, nil
	case s[0] == '#':
		if !isHex(s[1:]) || (len(s) != 4 && len(s) != 7) {
			return Color{}, fmt.Errorf("%w: malformed hex color %q", ErrInvalidConfig, s)
		}
		c := gg.Hex(s)
		return RGBColor(c.R, c.G, c.B), nil
	}
	c := Named(s)
	if _, ok := colornames.Map[c.name]; !ok {
		return Color{}, fmt.Errorf("%w: unknown color name %q", ErrInvalidConfig, s)
	}
	return c, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// IsSet reports whether c holds a color.
func (c Color) IsSet() bool {
	return c.kind != colorUnset
}

// RGB resolves c to a concrete triple.
// Unset colors and unknown names return ErrInvalidConfig.
func (c Color) RGB() (RGB, error) {
	switch c.kind {
	case colorRGB:
		return c.rgb, nil
	case colorNamed:
		v, ok := colornames.Map[c.name]
		if !ok {
			return RGB{}, fmt.Errorf("%w: unknown color name %q", ErrInvalidConfig, c.name)
		}
		return RGB{R: float64(v.R) / 255, G: float64(v.G) / 255, B: float64(v.B) / 255}, nil
	}
	return RGB{}, fmt.Errorf("%w: color is unset", ErrInvalidConfig)
}

// String returns the name of a named color, "#rrggbb" for an explicit one
// and "" when unset.
func (c Color) String() string {
	switch c.kind {
	case colorNamed:
		return c.name
	case colorRGB:
		r, g, b := c.rgb.Bytes()
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Resolve returns override if it is set, otherwise def.
func Resolve(override, def Color) Color {
	if override.IsSet() {
		return override
	}
	return def
}

// defaultLineHex is the base of the default line color.
const defaultLineHex = "#1f77b4"

// DefaultLineColor returns the default per-channel line color: defaultLineHex
// scaled so its largest component is 1, then brightened by raising every
// component to the power 1/3.
func DefaultLineColor() Color {
	c := gg.Hex(defaultLineHex)
	m := math.Max(c.R, math.Max(c.G, c.B))
	return RGBColor(
		math.Pow(c.R/m, 1.0/3),
		math.Pow(c.G/m, 1.0/3),
		math.Pow(c.B/m, 1.0/3),
	)
}
