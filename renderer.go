package scope

import (
	"fmt"
	"io"
	"slices"
	"time"
)

// Renderer draws one waveform per channel into a fixed grid of regions.
//
// Geometry and colors are applied by the first RenderFrame call and frozen
// afterwards; every later call only replaces line y values. A Renderer is
// not safe for concurrent use: calls must be strictly sequential.
type Renderer struct {
	cfg    Config
	layout Layout
	width  int
	height int

	surface Surface
	grid    []Region // every cell, row-major
	regions []Region // regions[ch], assigned by Arrange
	scale   float64

	overrides []Color
	labels    []string

	// Set by the first RenderFrame.
	initialized bool
	lines       []Line
	nsamp       []int
	failed      error

	frames int
	closed bool
}

// Ensure Renderer implements io.Closer.
var _ io.Closer = (*Renderer)(nil)

// New creates a renderer for the given number of channels.
//
// The grid is computed from cfg.Layout, the surface is created by the
// backend (WithBackend, or the registry entry named by cfg.Backend) and
// subdivided into one region per grid cell, including cells no channel
// uses. With cfg.CreateWindow the surface must implement Window.
func New(cfg Config, channels int, opts ...Option) (*Renderer, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := NewLayout(channels, cfg.Layout)
	if err != nil {
		return nil, err
	}

	b := o.backend
	if b == nil {
		name := cfg.Backend
		if name == "" {
			name = DefaultBackend
		}
		if b, err = NewBackend(name); err != nil {
			return nil, err
		}
	}

	width, height := cfg.DividedSize()
	surface, err := b.CreateSurface(width, height)
	if err != nil {
		return nil, fmt.Errorf("scope: create %dx%d surface: %w", width, height, err)
	}

	r := &Renderer{
		cfg:     cfg,
		layout:  layout,
		width:   width,
		height:  height,
		surface: surface,
		scale:   cfg.Scale(),
	}
	if err := r.setup(); err != nil {
		_ = surface.Close()
		return nil, err
	}
	return r, nil
}

// setup allocates the region grid and opens the window if requested.
func (r *Renderer) setup() error {
	l := r.layout
	grid, err := r.surface.CreateRegionGrid(l.Rows, l.Cols)
	if err != nil {
		return fmt.Errorf("scope: create %dx%d region grid: %w", l.Rows, l.Cols, err)
	}
	if len(grid) != l.Cells() {
		return fmt.Errorf("%w: region grid has %d regions, want %d", ErrBackendContract, len(grid), l.Cells())
	}
	r.grid = grid
	r.regions = Arrange(l, func(row, col int) Region {
		return grid[row*l.Cols+col]
	})
	if s, ok := r.surface.(Scaler); ok {
		s.SetScale(r.scale)
	}

	Logger().Debug("scope: layout",
		"channels", l.Channels, "rows", l.Rows, "cols", l.Cols,
		"orientation", l.Orientation.String(), "width", r.width, "height", r.height)

	if r.cfg.CreateWindow {
		w, ok := r.surface.(Window)
		if !ok {
			return fmt.Errorf("%w: create_window is set but %T cannot open a window", ErrInvalidConfig, r.surface)
		}
		if err := w.ShowWindow(); err != nil {
			return fmt.Errorf("scope: show window: %w", err)
		}
		Logger().Info("scope: window opened", "width", r.width, "height", r.height)
	}
	return nil
}

// SetColors sets one line color override per channel. Unset entries use
// Config.InitLineColor. It must be called before the first RenderFrame.
func (r *Renderer) SetColors(overrides []Color) error {
	if r.closed {
		return ErrClosed
	}
	if len(overrides) != r.layout.Channels {
		return &ArityError{What: "colors", Got: len(overrides), Want: r.layout.Channels}
	}
	if r.initialized {
		return fmt.Errorf("%w: cannot set colors after first render", ErrLifecycleViolation)
	}
	for i, c := range overrides {
		if !c.IsSet() {
			continue
		}
		if _, err := c.RGB(); err != nil {
			return fmt.Errorf("channel %d color: %w", i, err)
		}
	}
	r.overrides = slices.Clone(overrides)
	return nil
}

// SetLabels sets one text label per channel, drawn in the corner given by
// Config.LabelPosition. It must be called before the first RenderFrame.
func (r *Renderer) SetLabels(labels []string) error {
	if r.closed {
		return ErrClosed
	}
	if len(labels) != r.layout.Channels {
		return &ArityError{What: "labels", Got: len(labels), Want: r.layout.Channels}
	}
	if r.initialized {
		return fmt.Errorf("%w: cannot set labels after first render", ErrLifecycleViolation)
	}
	r.labels = slices.Clone(labels)
	return nil
}

// RenderFrame draws one frame with data[ch] plotted in channel ch's region.
// Amplitudes are expected in [-1, 1].
//
// The first call fixes, per channel, the x-domain [0, len(data[ch])-1], the
// color and the stroke width. Later calls must supply the same number of
// samples per channel and only update y values.
func (r *Renderer) RenderFrame(data [][]float64) error {
	if r.closed {
		return ErrClosed
	}
	if r.failed != nil {
		return r.failed
	}
	if len(data) != r.layout.Channels {
		return &ArityError{What: "data", Got: len(data), Want: r.layout.Channels}
	}

	start := time.Now()
	if !r.initialized {
		if err := r.initialize(data); err != nil {
			// The backend may hold a partial set of lines now.
			r.failed = fmt.Errorf("scope: first frame failed: %w", err)
			return err
		}
	} else {
		for ch, d := range data {
			if len(d) != r.nsamp[ch] {
				return fmt.Errorf("%w: channel %d has %d samples, first frame had %d",
					ErrArityMismatch, ch, len(d), r.nsamp[ch])
			}
		}
		for ch, d := range data {
			r.lines[ch].SetYData(d)
		}
	}

	if err := r.surface.Draw(); err != nil {
		return fmt.Errorf("scope: draw frame %d: %w", r.frames, err)
	}
	r.frames++
	Logger().Debug("scope: frame drawn", "frame", r.frames, "elapsed", time.Since(start))
	return nil
}

// initialize performs the one-time setup of the first frame.
func (r *Renderer) initialize(data [][]float64) error {
	cfg := r.cfg
	bg, err := cfg.backgroundRGB()
	if err != nil {
		return err
	}
	r.surface.SetBackgroundColor(bg)
	if err := r.drawGrid(); err != nil {
		return err
	}

	def := cfg.lineColor()
	lines := make([]Line, len(data))
	nsamp := make([]int, len(data))
	for ch, d := range data {
		override := Color{}
		if r.overrides != nil {
			override = r.overrides[ch]
		}
		color, err := Resolve(override, def).RGB()
		if err != nil {
			return fmt.Errorf("channel %d color: %w", ch, err)
		}

		region := r.regions[ch]
		region.SetBounds(0, float64(len(d)-1), -1, 1)
		if err := r.decorate(ch, len(d)); err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}

		line, err := region.PlotLine(d, color, cfg.LineWidth*r.scale)
		if err != nil {
			return fmt.Errorf("channel %d: plot line: %w", ch, err)
		}
		lines[ch] = line
		nsamp[ch] = len(d)
	}

	r.lines = lines
	r.nsamp = nsamp
	r.initialized = true
	Logger().Info("scope: renderer initialized", "channels", len(data), "frame_bytes", FrameLen(r.width, r.height))
	return nil
}

// drawGrid borders every cell of the grid, used or not. Sides on the
// surface edge and the top and left sides, drawn by the neighbor, are hidden.
func (r *Renderer) drawGrid() error {
	cfg := r.cfg
	if !cfg.GridColor.IsSet() {
		return nil
	}
	color, err := cfg.GridColor.RGB()
	if err != nil {
		return err
	}
	skipped := 0
	for i, region := range r.grid {
		d, ok := region.(Decorator)
		if !ok {
			skipped++
			continue
		}
		row, col := i/r.layout.Cols, i%r.layout.Cols
		hide := EdgeTop | EdgeLeft | r.layout.ScreenEdges(row, col)&(EdgeBottom|EdgeRight)
		d.SetBorder(color, cfg.GridLineWidth*r.scale, hide)
	}
	if skipped > 0 {
		Logger().Warn("scope: regions do not support grid borders", "skipped", skipped, "region", fmt.Sprintf("%T", r.grid[0]))
	}
	return nil
}

// decorate adds the midlines and label of channel ch's region.
func (r *Renderer) decorate(ch, nsamp int) error {
	cfg := r.cfg
	var label string
	if r.labels != nil {
		label = r.labels[ch]
	}
	if !cfg.HMidline && !cfg.VMidline && label == "" {
		return nil
	}

	d, ok := r.regions[ch].(Decorator)
	if !ok {
		Logger().Warn("scope: region does not support decorations", "channel", ch, "region", fmt.Sprintf("%T", r.regions[ch]))
		return nil
	}

	if cfg.HMidline || cfg.VMidline {
		mid, err := Resolve(cfg.MidlineColor, Resolve(cfg.GridColor, cfg.lineColor())).RGB()
		if err != nil {
			return err
		}
		if cfg.VMidline {
			d.AddVLine(float64(nsamp/2)-0.5, mid, cfg.GridLineWidth*r.scale)
		}
		if cfg.HMidline {
			d.AddHLine(0, mid, cfg.GridLineWidth*r.scale)
		}
	}

	if label != "" {
		color, err := Resolve(cfg.LabelColor, cfg.lineColor()).RGB()
		if err != nil {
			return err
		}
		if err := d.SetLabel(label, color, cfg.LabelSize*r.scale, cfg.LabelPosition); err != nil {
			return fmt.Errorf("label: %w", err)
		}
	}
	return nil
}

// Frame returns the last drawn frame as packed rgb24 of Size() pixels.
func (r *Renderer) Frame() ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.frames == 0 {
		return nil, ErrNotRendered
	}
	buf, err := r.surface.ExtractPixelsRGB()
	if err != nil {
		return nil, fmt.Errorf("scope: extract pixels: %w", err)
	}
	if err := ValidateFrame(buf, r.width, r.height); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close releases the surface. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.surface.Close()
}

// Layout returns the computed grid layout.
func (r *Renderer) Layout() Layout { return r.layout }

// Channels returns the number of channels.
func (r *Renderer) Channels() int { return r.layout.Channels }

// Size returns the surface size in pixels (after ResDivisor).
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Initialized reports whether the first frame has been rendered.
func (r *Renderer) Initialized() bool { return r.initialized }

// FrameCount returns the number of frames drawn so far.
func (r *Renderer) FrameCount() int { return r.frames }
