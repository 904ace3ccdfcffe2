package scope

import (
	"fmt"
	"strings"
)

// Orientation selects the order in which channels are assigned to grid cells.
type Orientation uint8

const (
	// Horizontal assigns channels in row-major order (left to right, then down).
	Horizontal Orientation = iota

	// Vertical assigns channels in column-major order (top to bottom, then right).
	Vertical
)

// String returns the short text form of the orientation ("h" or "v").
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "h"
	case Vertical:
		return "v"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// Valid reports whether o is Horizontal or Vertical.
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// ParseOrientation parses "h", "horizontal", "v" or "vertical" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	}
	return 0, fmt.Errorf("%w: invalid orientation %q (want h or v)", ErrInvalidConfig, s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: invalid orientation %d", ErrInvalidConfig, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// LayoutConfig constrains the grid along one axis.
// Zero means unset. At most one of Rows and Cols may be set;
// when neither is, Cols defaults to 1.
type LayoutConfig struct {
	Rows        int         `toml:"nrows,omitempty"`
	Cols        int         `toml:"ncols,omitempty"`
	Orientation Orientation `toml:"orientation"`
}

// Normalize returns the config with its defaults applied.
func (c LayoutConfig) Normalize() (LayoutConfig, error) {
	if c.Rows < 0 || c.Cols < 0 {
		return c, fmt.Errorf("%w: negative grid size (nrows=%d, ncols=%d)", ErrInvalidConfig, c.Rows, c.Cols)
	}
	if c.Rows > 0 && c.Cols > 0 {
		return c, fmt.Errorf("%w: cannot manually assign both nrows and ncols", ErrInvalidConfig)
	}
	if c.Rows == 0 && c.Cols == 0 {
		c.Cols = 1
	}
	if !c.Orientation.Valid() {
		return c, fmt.Errorf("%w: invalid orientation %v", ErrInvalidConfig, c.Orientation)
	}
	return c, nil
}

// Grid is the rows×cols subdivision of the surface.
type Grid struct {
	Rows, Cols int
}

// Cells returns the number of cells in the grid.
func (g Grid) Cells() int {
	return g.Rows * g.Cols
}

// Edges is a bit set of surface borders touched by a grid cell.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeLeft
	EdgeBottom
	EdgeRight
)

// Has reports whether all edges in mask are set.
func (e Edges) Has(mask Edges) bool {
	return e&mask == mask
}

// ScreenEdges returns the surface borders touched by cell (row, col).
func (g Grid) ScreenEdges(row, col int) Edges {
	var e Edges
	if row == 0 {
		e |= EdgeTop
	}
	if col == 0 {
		e |= EdgeLeft
	}
	if row == g.Rows-1 {
		e |= EdgeBottom
	}
	if col == g.Cols-1 {
		e |= EdgeRight
	}
	return e
}

// ComputeGrid derives the grid for the given channel count.
// If cfg.Rows is set, the column count is ceil(channels/rows);
// otherwise the row count is ceil(channels/cols).
func ComputeGrid(channels int, cfg LayoutConfig) (Grid, error) {
	if channels < 0 {
		return Grid{}, fmt.Errorf("%w: negative channel count %d", ErrInvalidConfig, channels)
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return Grid{}, err
	}
	if cfg.Rows > 0 {
		return Grid{Rows: cfg.Rows, Cols: ceilDiv(channels, cfg.Rows)}, nil
	}
	return Grid{Rows: ceilDiv(channels, cfg.Cols), Cols: cfg.Cols}, nil
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// Layout is a computed grid plus the channel assignment order.
type Layout struct {
	Grid
	Orientation Orientation
	Channels    int
}

// NewLayout computes the layout for the given channel count.
func NewLayout(channels int, cfg LayoutConfig) (Layout, error) {
	g, err := ComputeGrid(channels, cfg)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Grid: g, Orientation: cfg.Orientation, Channels: channels}, nil
}

// CellIndex returns the row-major cell index that channel ch is assigned to.
// Vertical layouts transpose the grid: channel ch is placed at
// row ch%Rows, column ch/Rows.
func (l Layout) CellIndex(ch int) int {
	if l.Orientation == Vertical {
		return (ch%l.Rows)*l.Cols + ch/l.Rows
	}
	return ch
}

// Cell returns the (row, col) that channel ch is assigned to.
func (l Layout) Cell(ch int) (row, col int) {
	i := l.CellIndex(ch)
	return i / l.Cols, i % l.Cols
}

// Arrange calls factory once for every cell of the grid in row-major order,
// including cells no channel is assigned to, and returns the regions of the
// first l.Channels assignments. Unassigned regions still exist on the
// backend, they are simply never given data.
func Arrange[R any](l Layout, factory func(row, col int) R) []R {
	cells := make([]R, l.Cells())
	for i := range cells {
		cells[i] = factory(i/l.Cols, i%l.Cols)
	}

	out := make([]R, l.Channels)
	for ch := range out {
		out[ch] = cells[l.CellIndex(ch)]
	}
	return out
}
