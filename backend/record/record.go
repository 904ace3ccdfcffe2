// Package record provides a scope backend that draws nothing and records
// every call it receives.
//
// It is used by tests to observe what a Renderer asks of its backend, and
// by scoperender -dry-run. Extracted frames are filled with the background
// color.
//
//	b := record.New()
//	r, _ := scope.New(cfg, 3, scope.WithBackend(b))
//	_ = r.RenderFrame(data)
//	s := b.Surfaces[0]
//	fmt.Println(s.Draws, s.Regions[0].Lines[0].Data)
package record

import (
	"errors"
	"fmt"

	"github.com/gogpu/scope"
)

func init() {
	scope.RegisterBackend("record", func() scope.Backend {
		return New()
	})
}

var errClosed = errors.New("record: surface is closed")

// Backend records the surfaces it creates.
type Backend struct {
	// Windowed makes CreateSurface return surfaces implementing scope.Window.
	Windowed bool

	// FailSurface, when non-nil, is returned by CreateSurface.
	FailSurface error

	Surfaces []*Surface
}

// Ensure Backend implements scope.Backend.
var _ scope.Backend = (*Backend)(nil)

// New creates a recording backend.
func New() *Backend {
	return &Backend{}
}

// CreateSurface records a new surface.
func (b *Backend) CreateSurface(width, height int) (scope.Surface, error) {
	if b.FailSurface != nil {
		return nil, b.FailSurface
	}
	s := &Surface{Width: width, Height: height}
	b.Surfaces = append(b.Surfaces, s)
	if b.Windowed {
		return &WindowSurface{Surface: s}, nil
	}
	return s, nil
}

// Last returns the most recently created surface, or nil.
func (b *Backend) Last() *Surface {
	if len(b.Surfaces) == 0 {
		return nil
	}
	return b.Surfaces[len(b.Surfaces)-1]
}

// Surface records calls made on a surface.
type Surface struct {
	Width, Height int

	Background      scope.RGB
	BackgroundCalls int
	Scale           float64

	// Regions in creation (row-major) order.
	Regions   []*Region
	GridCalls int

	Draws       int
	Extractions int
	Shown       bool
	Closed      bool

	// FrameHook, when set, replaces every extracted frame with its result.
	// Tests use it to simulate a backend breaking the pixel format.
	FrameHook func([]byte) []byte
}

// Ensure Surface implements scope.Surface and scope.Scaler.
var (
	_ scope.Surface = (*Surface)(nil)
	_ scope.Scaler  = (*Surface)(nil)
)

// CreateRegionGrid records rows×cols regions in row-major order.
func (s *Surface) CreateRegionGrid(rows, cols int) ([]scope.Region, error) {
	s.GridCalls++
	out := make([]scope.Region, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r := &Region{Row: row, Col: col, Index: len(s.Regions)}
			s.Regions = append(s.Regions, r)
			out = append(out, r)
		}
	}
	return out, nil
}

// SetScale records the resolution scale.
func (s *Surface) SetScale(scale float64) {
	s.Scale = scale
}

// SetBackgroundColor records the background color.
func (s *Surface) SetBackgroundColor(c scope.RGB) {
	s.Background = c
	s.BackgroundCalls++
}

// Draw counts the call.
func (s *Surface) Draw() error {
	if s.Closed {
		return errClosed
	}
	s.Draws++
	return nil
}

// ExtractPixelsRGB returns a frame filled with the background color.
func (s *Surface) ExtractPixelsRGB() ([]byte, error) {
	if s.Closed {
		return nil, errClosed
	}
	s.Extractions++
	r, g, b := s.Background.Bytes()
	buf := make([]byte, scope.FrameLen(s.Width, s.Height))
	for i := 0; i < len(buf); i += scope.BytesPerPixel {
		buf[i], buf[i+1], buf[i+2] = r, g, b
	}
	if s.FrameHook != nil {
		buf = s.FrameHook(buf)
	}
	return buf, nil
}

// Close marks the surface closed.
func (s *Surface) Close() error {
	s.Closed = true
	return nil
}

// Lines returns every line plotted on the surface, in region order.
func (s *Surface) Lines() []*Line {
	var out []*Line
	for _, r := range s.Regions {
		out = append(out, r.Lines...)
	}
	return out
}

// WindowSurface is a Surface that can be shown.
type WindowSurface struct {
	*Surface
}

// Ensure WindowSurface implements scope.Window.
var _ scope.Window = (*WindowSurface)(nil)

// ShowWindow records that the window was opened.
func (w *WindowSurface) ShowWindow() error {
	if w.Shown {
		return errors.New("record: window already shown")
	}
	w.Shown = true
	return nil
}

// Region records calls made on one grid cell.
type Region struct {
	Row, Col int
	Index    int // position in the row-major grid

	XMin, XMax, YMin, YMax float64
	BoundsCalls            int

	Lines []*Line

	Border *Rule
	Hidden scope.Edges
	HLines []Rule
	VLines []Rule
	Label  *Label
}

// Ensure Region implements scope.Region and scope.Decorator.
var (
	_ scope.Region    = (*Region)(nil)
	_ scope.Decorator = (*Region)(nil)
)

// Rule is a recorded border or midline.
type Rule struct {
	At    float64
	Color scope.RGB
	Width float64
}

// Label is a recorded channel label.
type Label struct {
	Text     string
	Color    scope.RGB
	Size     float64
	Position scope.LabelPosition
}

// SetBounds records the data bounds.
func (r *Region) SetBounds(xmin, xmax, ymin, ymax float64) {
	r.XMin, r.XMax, r.YMin, r.YMax = xmin, xmax, ymin, ymax
	r.BoundsCalls++
}

// PlotLine records a new line.
func (r *Region) PlotLine(data []float64, color scope.RGB, width float64) (scope.Line, error) {
	if len(r.Lines) > 0 {
		return nil, fmt.Errorf("record: region (%d, %d) already has a line", r.Row, r.Col)
	}
	l := &Line{
		Data:  append([]float64(nil), data...),
		Color: color,
		Width: width,
	}
	r.Lines = append(r.Lines, l)
	return l, nil
}

// SetBorder records the border.
func (r *Region) SetBorder(color scope.RGB, width float64, hide scope.Edges) {
	r.Border = &Rule{Color: color, Width: width}
	r.Hidden = hide
}

// AddHLine records a horizontal rule.
func (r *Region) AddHLine(y float64, color scope.RGB, width float64) {
	r.HLines = append(r.HLines, Rule{At: y, Color: color, Width: width})
}

// AddVLine records a vertical rule.
func (r *Region) AddVLine(x float64, color scope.RGB, width float64) {
	r.VLines = append(r.VLines, Rule{At: x, Color: color, Width: width})
}

// SetLabel records the label.
func (r *Region) SetLabel(text string, color scope.RGB, size float64, pos scope.LabelPosition) error {
	r.Label = &Label{Text: text, Color: color, Size: size, Position: pos}
	return nil
}

// Line records the data of a plotted line.
type Line struct {
	Data    []float64
	Color   scope.RGB
	Width   float64
	Updates int
}

// Ensure Line implements scope.Line.
var _ scope.Line = (*Line)(nil)

// SetYData records new y values.
func (l *Line) SetYData(data []float64) {
	l.Data = append(l.Data[:0], data...)
	l.Updates++
}
