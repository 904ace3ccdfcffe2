package raster

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/scope"
)

// Region is one grid cell of a Surface.
// Data coordinates are mapped onto the cell with y growing upward.
type Region struct {
	surface *Surface

	// Cell rectangle in pixels.
	x, y, w, h float64

	// Data bounds.
	xmin, xmax, ymin, ymax float64

	border *border
	hlines []rule
	vlines []rule
	label  *label
	lines  []*Line
}

// Ensure Region implements scope.Region and scope.Decorator.
var (
	_ scope.Region    = (*Region)(nil)
	_ scope.Decorator = (*Region)(nil)
)

type border struct {
	color scope.RGB
	width float64
	hide  scope.Edges
}

type rule struct {
	at    float64
	color scope.RGB
	width float64
}

type label struct {
	text  string
	color scope.RGB
	size  float64
	pos   scope.LabelPosition
}

// Rect returns the cell rectangle in pixels.
func (r *Region) Rect() (x, y, w, h float64) {
	return r.x, r.y, r.w, r.h
}

// SetBounds sets the data rectangle mapped onto the cell.
func (r *Region) SetBounds(xmin, xmax, ymin, ymax float64) {
	r.xmin, r.xmax, r.ymin, r.ymax = xmin, xmax, ymin, ymax
}

// PlotLine adds a polyline through (i, data[i]).
func (r *Region) PlotLine(data []float64, color scope.RGB, width float64) (scope.Line, error) {
	if width == 0 {
		width = DefaultLineWidth * r.surface.scale
	}
	l := &Line{
		y:     append([]float64(nil), data...),
		color: color,
		width: width,
	}
	r.lines = append(r.lines, l)
	return l, nil
}

// SetBorder strokes the cell outline except along the hidden edges.
func (r *Region) SetBorder(color scope.RGB, width float64, hide scope.Edges) {
	r.border = &border{color: color, width: width, hide: hide}
}

// AddHLine adds a horizontal rule at data y.
func (r *Region) AddHLine(y float64, color scope.RGB, width float64) {
	r.hlines = append(r.hlines, rule{at: y, color: color, width: width})
}

// AddVLine adds a vertical rule at data x.
func (r *Region) AddVLine(x float64, color scope.RGB, width float64) {
	r.vlines = append(r.vlines, rule{at: x, color: color, width: width})
}

// SetLabel draws text in a corner of the cell.
// The font is loaded on first use.
func (r *Region) SetLabel(text string, color scope.RGB, size float64, pos scope.LabelPosition) error {
	if _, err := r.surface.face(size); err != nil {
		return err
	}
	r.label = &label{text: text, color: color, size: size, pos: pos}
	return nil
}

// used reports whether anything was added to the region.
func (r *Region) used() bool {
	return len(r.lines) > 0 || r.border != nil || r.label != nil ||
		len(r.hlines) > 0 || len(r.vlines) > 0
}

// project maps data coordinates to pixels. A degenerate axis maps to the
// cell center.
func (r *Region) project(x, y float64) (px, py float64) {
	px = r.x + r.w/2
	if r.xmax != r.xmin {
		px = r.x + (x-r.xmin)/(r.xmax-r.xmin)*r.w
	}
	py = r.y + r.h/2
	if r.ymax != r.ymin {
		py = r.y + (r.ymax-y)/(r.ymax-r.ymin)*r.h
	}
	return px, py
}

// draw renders the region clipped to its cell.
func (r *Region) draw(dc *gg.Context) error {
	dc.Push()
	defer dc.Pop()
	dc.ClipRect(r.x, r.y, r.w, r.h)

	if err := r.drawBorder(dc); err != nil {
		return err
	}
	for _, h := range r.hlines {
		_, py := r.project(0, h.at)
		if err := strokeSegment(dc, h.color, h.width, r.x, py, r.x+r.w, py); err != nil {
			return err
		}
	}
	for _, v := range r.vlines {
		px, _ := r.project(v.at, 0)
		if err := strokeSegment(dc, v.color, v.width, px, r.y, px, r.y+r.h); err != nil {
			return err
		}
	}
	for _, l := range r.lines {
		if err := l.stroke(dc, r); err != nil {
			return err
		}
	}
	return r.drawLabel(dc)
}

func (r *Region) drawBorder(dc *gg.Context) error {
	b := r.border
	if b == nil || b.width <= 0 {
		return nil
	}
	// Inset by half the width so the stroke stays inside the clip.
	in := b.width / 2
	left, top := r.x+in, r.y+in
	right, bottom := r.x+r.w-in, r.y+r.h-in

	edges := []struct {
		edge           scope.Edges
		x1, y1, x2, y2 float64
	}{
		{scope.EdgeTop, r.x, top, r.x + r.w, top},
		{scope.EdgeLeft, left, r.y, left, r.y + r.h},
		{scope.EdgeBottom, r.x, bottom, r.x + r.w, bottom},
		{scope.EdgeRight, right, r.y, right, r.y + r.h},
	}
	for _, e := range edges {
		if b.hide.Has(e.edge) {
			continue
		}
		if err := strokeSegment(dc, b.color, b.width, e.x1, e.y1, e.x2, e.y2); err != nil {
			return err
		}
	}
	return nil
}

func (r *Region) drawLabel(dc *gg.Context) error {
	l := r.label
	if l == nil || l.text == "" {
		return nil
	}
	face, err := r.surface.face(l.size)
	if err != nil {
		return err
	}
	dc.SetFont(face)
	dc.SetRGB(l.color.R, l.color.G, l.color.B)

	pad := labelPadding * l.size
	x, ax := r.x+pad, 0.0
	if l.pos.Right() {
		x, ax = r.x+r.w-pad, 1.0
	}
	// DrawStringAnchored treats y as the top of the text for ay=1 and as
	// the baseline for ay=0.
	y, ay := r.y+pad, 1.0
	if l.pos.Bottom() {
		y, ay = r.y+r.h-pad, 0.0
	}
	dc.DrawStringAnchored(l.text, x, y, ax, ay)
	return nil
}

func strokeSegment(dc *gg.Context, c scope.RGB, width, x1, y1, x2, y2 float64) error {
	if width <= 0 {
		return nil
	}
	dc.SetRGB(c.R, c.G, c.B)
	dc.SetLineWidth(width)
	dc.DrawLine(x1, y1, x2, y2)
	return dc.Stroke()
}

// Line is a polyline artifact of a Region.
type Line struct {
	y     []float64
	color scope.RGB
	width float64
}

// Ensure Line implements scope.Line.
var _ scope.Line = (*Line)(nil)

// SetYData replaces the y values.
func (l *Line) SetYData(data []float64) {
	l.y = append(l.y[:0], data...)
}

// Width returns the stroke width.
func (l *Line) Width() float64 {
	return l.width
}

// YData returns the current y values.
func (l *Line) YData() []float64 {
	return l.y
}

func (l *Line) stroke(dc *gg.Context, r *Region) error {
	if len(l.y) < 2 {
		return nil
	}
	dc.SetRGB(l.color.R, l.color.G, l.color.B)
	dc.SetLineWidth(l.width)
	dc.SetLineJoin(gg.LineJoinRound)
	for i, y := range l.y {
		px, py := r.project(float64(i), y)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	return dc.Stroke()
}
